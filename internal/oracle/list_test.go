package oracle

import (
	"context"
	"os"
	"path/filepath"
	"testing"
)

func writeFile(t *testing.T, dir, name, content string) string {
	t.Helper()
	path := filepath.Join(dir, name)
	if err := os.WriteFile(path, []byte(content), 0o600); err != nil {
		t.Fatalf("Failed to write %s: %v", name, err)
	}
	return path
}

func TestReadListFile(t *testing.T) {
	dir := t.TempDir()

	tests := []struct {
		name     string
		file     string
		content  string
		expected []RuleList
	}{
		{
			name:    "Plain text uses file name as source",
			file:    "community.txt",
			content: "# AI artists\nThe Velvet Sundown\n\n  Aventhis  \n",
			expected: []RuleList{
				{Source: "community", Artists: []string{"The Velvet Sundown", "Aventhis"}},
			},
		},
		{
			name:    "Single YAML list",
			file:    "curated.yaml",
			content: "source: curated\nartists:\n  - Artist A\n  - Artist B\n",
			expected: []RuleList{
				{Source: "curated", Artists: []string{"Artist A", "Artist B"}},
			},
		},
		{
			name:    "YAML sequence without source",
			file:    "lists.yml",
			content: "- artists: [A]\n- source: other\n  artists: [B]\n",
			expected: []RuleList{
				{Source: "lists", Artists: []string{"A"}},
				{Source: "other", Artists: []string{"B"}},
			},
		},
		{
			name:    "JSON list",
			file:    "remote.json",
			content: `{"source": "remote", "artists": ["C"]}`,
			expected: []RuleList{
				{Source: "remote", Artists: []string{"C"}},
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			lists, err := ReadListFile(writeFile(t, dir, tt.file, tt.content))
			if err != nil {
				t.Fatalf("ReadListFile() error: %v", err)
			}
			if len(lists) != len(tt.expected) {
				t.Fatalf("Expected %d lists, got %d", len(tt.expected), len(lists))
			}
			for i, list := range lists {
				if list.Source != tt.expected[i].Source {
					t.Errorf("List %d source = %s, want %s", i, list.Source, tt.expected[i].Source)
				}
				if len(list.Artists) != len(tt.expected[i].Artists) {
					t.Fatalf("List %d artists = %v, want %v", i, list.Artists, tt.expected[i].Artists)
				}
				for j := range list.Artists {
					if list.Artists[j] != tt.expected[i].Artists[j] {
						t.Errorf("List %d artist %d = %q, want %q", i, j, list.Artists[j], tt.expected[i].Artists[j])
					}
				}
			}
		})
	}
}

func TestReadListFile_Errors(t *testing.T) {
	dir := t.TempDir()

	if _, err := ReadListFile(filepath.Join(dir, "missing.txt")); err == nil {
		t.Error("Expected error for missing file")
	}

	if _, err := ReadListFile(writeFile(t, dir, "bad.json", "{not json")); err == nil {
		t.Error("Expected error for malformed JSON")
	}
}

func TestListOracle_CheckArtist(t *testing.T) {
	oracle := NewListOracle()
	oracle.AddList(RuleList{Source: "list1", Artists: []string{"The Velvet Sundown", "Björk Bot"}})
	oracle.Add("Simon & Garfunkel AI", "list2")
	oracle.Add("Tyler", "list2")
	oracle.Add("Earth", "list2")

	tests := []struct {
		name    string
		artist  string
		blocked bool
		source  string
	}{
		{name: "exact", artist: "The Velvet Sundown", blocked: true, source: "list1"},
		{name: "case and spacing", artist: "  the VELVET   sundown", blocked: true, source: "list1"},
		{name: "accents folded", artist: "Bjork Bot", blocked: true, source: "list1"},
		{name: "primary artist of a feature", artist: "The Velvet Sundown feat. Someone", blocked: true, source: "list1"},
		{name: "ampersand name", artist: "Simon and Garfunkel AI", blocked: true, source: "list2"},
		{name: "featured artist alone does not match", artist: "Someone feat. The Velvet Sundown", blocked: false},
		{name: "clean", artist: "Real Band", blocked: false},
		{name: "comma band sharing a blocked first word", artist: "Tyler, The Creator", blocked: false},
		{name: "ampersand band sharing a blocked first word", artist: "Earth, Wind & Fire", blocked: false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			verdict, err := oracle.CheckArtist(context.Background(), tt.artist)
			if err != nil {
				t.Fatalf("CheckArtist() error: %v", err)
			}
			if verdict.Blocked != tt.blocked || verdict.Source != tt.source {
				t.Errorf("CheckArtist(%q) = %+v, want blocked=%v source=%q", tt.artist, verdict, tt.blocked, tt.source)
			}
		})
	}
}

func TestListOracle_LoadFiles(t *testing.T) {
	dir := t.TempDir()
	plain := writeFile(t, dir, "community.txt", "Artist A\n")
	structured := writeFile(t, dir, "curated.yaml", "source: curated\nartists: [Artist B]\n")

	oracle := NewListOracle()
	if err := oracle.LoadFiles(plain, structured); err != nil {
		t.Fatalf("LoadFiles() error: %v", err)
	}

	if oracle.Size() != 2 {
		t.Errorf("Expected 2 artists, got %d", oracle.Size())
	}

	verdict, _ := oracle.CheckArtist(context.Background(), "Artist B")
	if verdict.Source != "curated" {
		t.Errorf("Expected curated source, got %+v", verdict)
	}
}
