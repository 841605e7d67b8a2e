package oracle

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"go.uber.org/zap"

	"spottheai/internal/core"
)

type countingOracle struct {
	mutex   sync.Mutex
	calls   map[string]int
	blocked map[string]string
	err     error
}

func newCountingOracle() *countingOracle {
	return &countingOracle{calls: make(map[string]int), blocked: make(map[string]string)}
}

func (o *countingOracle) CheckArtist(_ context.Context, artist string) (core.Verdict, error) {
	o.mutex.Lock()
	defer o.mutex.Unlock()
	o.calls[artist]++
	if o.err != nil {
		return core.Verdict{}, o.err
	}
	if source, ok := o.blocked[artist]; ok {
		return core.Verdict{Blocked: true, Source: source}, nil
	}
	return core.Verdict{}, nil
}

func (o *countingOracle) total() int {
	o.mutex.Lock()
	defer o.mutex.Unlock()
	n := 0
	for _, c := range o.calls {
		n += c
	}
	return n
}

func TestCached_CachesVerdictsByArtistKey(t *testing.T) {
	backend := newCountingOracle()
	backend.blocked["Artist B"] = "list1"
	cached := NewCached(backend, 10, time.Minute)

	for _, artist := range []string{"Artist B", "artist b", " ARTIST B "} {
		verdict, err := cached.CheckArtist(context.Background(), artist)
		if err != nil {
			t.Fatalf("CheckArtist() error: %v", err)
		}
		if !verdict.Blocked || verdict.Source != "list1" {
			t.Errorf("CheckArtist(%q) = %+v", artist, verdict)
		}
	}

	if backend.total() != 1 {
		t.Errorf("Expected one backend call, got %d", backend.total())
	}
	if cached.Len() != 1 {
		t.Errorf("Expected one cached verdict, got %d", cached.Len())
	}

	cached.Purge()
	if _, err := cached.CheckArtist(context.Background(), "Artist B"); err != nil {
		t.Fatalf("CheckArtist() error: %v", err)
	}
	if backend.total() != 2 {
		t.Errorf("Expected backend call after purge, got %d", backend.total())
	}
}

func TestCached_ErrorsAreNotCached(t *testing.T) {
	backend := newCountingOracle()
	backend.err = core.ErrOracleUnavailable
	cached := NewCached(backend, 10, time.Minute)

	for i := 0; i < 2; i++ {
		if _, err := cached.CheckArtist(context.Background(), "A"); !errors.Is(err, core.ErrOracleUnavailable) {
			t.Errorf("Expected ErrOracleUnavailable, got %v", err)
		}
	}
	if backend.total() != 2 {
		t.Errorf("Expected every failing call to reach the backend, got %d", backend.total())
	}
}

func TestCached_Expiry(t *testing.T) {
	backend := newCountingOracle()
	cached := NewCached(backend, 10, 20*time.Millisecond)

	_, _ = cached.CheckArtist(context.Background(), "A")
	time.Sleep(100 * time.Millisecond)
	_, _ = cached.CheckArtist(context.Background(), "A")

	if backend.total() != 2 {
		t.Errorf("Expected expired verdict to be re-fetched, got %d calls", backend.total())
	}
}

func TestChain_CheckArtist(t *testing.T) {
	clean := newCountingOracle()
	blocking := newCountingOracle()
	blocking.blocked["A"] = "db"
	failing := newCountingOracle()
	failing.err = core.ErrOracleUnavailable

	tests := []struct {
		name     string
		backends []core.BlacklistOracle
		blocked  bool
		source   string
		partial  bool
		wantErr  bool
	}{
		{name: "first blocked wins", backends: []core.BlacklistOracle{clean, blocking}, blocked: true, source: "db"},
		{name: "all clean", backends: []core.BlacklistOracle{clean, clean}},
		{name: "error skipped when another answers", backends: []core.BlacklistOracle{failing, clean}, partial: true},
		{name: "error skipped before block", backends: []core.BlacklistOracle{failing, blocking}, blocked: true, source: "db"},
		{name: "all failing", backends: []core.BlacklistOracle{failing, failing}, wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			verdict, err := NewChain(zap.NewNop(), tt.backends...).CheckArtist(context.Background(), "A")
			if tt.wantErr {
				if !errors.Is(err, core.ErrOracleUnavailable) {
					t.Errorf("Expected ErrOracleUnavailable, got %v", err)
				}
				return
			}
			if err != nil {
				t.Fatalf("CheckArtist() error: %v", err)
			}
			if verdict.Blocked != tt.blocked || verdict.Source != tt.source || verdict.Partial != tt.partial {
				t.Errorf("CheckArtist() = %+v", verdict)
			}
		})
	}
}

func TestCached_PartialChainVerdictNotCached(t *testing.T) {
	clean := newCountingOracle()
	failing := newCountingOracle()
	failing.err = core.ErrOracleUnavailable
	cached := NewCached(NewChain(zap.NewNop(), failing, clean), 10, time.Minute)

	for i := 0; i < 2; i++ {
		verdict, err := cached.CheckArtist(context.Background(), "A")
		if err != nil {
			t.Fatalf("CheckArtist() error: %v", err)
		}
		if verdict.Blocked {
			t.Errorf("Expected clean verdict, got %+v", verdict)
		}
	}

	if failing.total() != 2 {
		t.Errorf("Expected the failing backend to be asked again, got %d calls", failing.total())
	}
	if cached.Len() != 0 {
		t.Errorf("Expected no cached verdict, got %d", cached.Len())
	}

	failing.mutex.Lock()
	failing.err = nil
	failing.mutex.Unlock()
	_, _ = cached.CheckArtist(context.Background(), "A")
	if cached.Len() != 1 {
		t.Errorf("Expected verdict cached once every backend answered, got %d", cached.Len())
	}
}

func TestOpen(t *testing.T) {
	dir := t.TempDir()
	list := writeFile(t, dir, "community.txt", "Artist A\n")

	cfg := &core.OracleConfig{
		Backends:  []string{core.OracleBackendList, core.OracleBackendSQLite},
		ListFiles: []string{list},
		DBPath:    dir + "/blacklist.db",
		CacheSize: 10,
		CacheTTL:  time.Minute,
	}

	oracle, closeFn, err := Open(cfg, zap.NewNop())
	if err != nil {
		t.Fatalf("Open() error: %v", err)
	}
	defer func() {
		if err := closeFn(); err != nil {
			t.Errorf("close error: %v", err)
		}
	}()

	if _, ok := oracle.(*Cached); !ok {
		t.Errorf("Expected cached oracle, got %T", oracle)
	}

	verdict, err := oracle.CheckArtist(context.Background(), "artist a")
	if err != nil || !verdict.Blocked || verdict.Source != "community" {
		t.Errorf("CheckArtist() = %+v, %v", verdict, err)
	}
}

func TestOpen_Errors(t *testing.T) {
	tests := []struct {
		name string
		cfg  core.OracleConfig
	}{
		{name: "no backends", cfg: core.OracleConfig{}},
		{name: "unknown backend", cfg: core.OracleConfig{Backends: []string{"redis"}}},
		{name: "http without url", cfg: core.OracleConfig{Backends: []string{core.OracleBackendHTTP}}},
		{name: "sqlite without path", cfg: core.OracleConfig{Backends: []string{core.OracleBackendSQLite}}},
		{name: "missing list file", cfg: core.OracleConfig{Backends: []string{core.OracleBackendList}, ListFiles: []string{"/nonexistent/list.txt"}}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, _, err := Open(&tt.cfg, zap.NewNop()); err == nil {
				t.Error("Expected error")
			}
		})
	}
}
