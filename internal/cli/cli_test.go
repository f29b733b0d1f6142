package cli

import (
	"bytes"
	"encoding/json"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/yourusername/blogjson/internal/storage"
)

const testDocument = `{
  "blogEntries": [
    {
      "id": 2,
      "urlFriendlyId": "second_post",
      "title": "Second Post",
      "description": "More words",
      "body": "Some **bold** text <script>x()</script>",
      "blogSection": "Main",
      "createdOn": "2024-02-01",
      "modifiedOn": "2024-02-03",
      "categories": [{"name": "rust"}]
    },
    {
      "id": 1,
      "urlFriendlyId": "first_post_finally",
      "title": "First Post Finally",
      "description": "The first one",
      "body": "# Hi",
      "blogSection": "Main",
      "createdOn": "2024-01-01",
      "modifiedOn": "2024-01-01",
      "categories": [{"name": "intro"}, {"name": "meta"}]
    }
  ],
  "nextId": 3
}`

type result struct {
	stdout string
	stderr string
	err    error
}

// run executes the command tree against a document written to a temp dir.
// The config file does not exist unless configYAML is non-empty.
func run(t *testing.T, document, configYAML string, args ...string) result {
	t.Helper()
	t.Setenv("BLOG_DATA_FILE", "")
	t.Setenv("BLOG_LOG_LEVEL", "")

	dir := t.TempDir()
	dataPath := filepath.Join(dir, "data.json")
	if err := os.WriteFile(dataPath, []byte(document), 0600); err != nil {
		t.Fatalf("Failed to write data file: %v", err)
	}
	configPath := filepath.Join(dir, "config.yaml")
	if configYAML != "" {
		if err := os.WriteFile(configPath, []byte(configYAML), 0600); err != nil {
			t.Fatalf("Failed to write config: %v", err)
		}
	}

	var stdout, stderr bytes.Buffer
	cmd := NewRootCommand()
	cmd.SetOut(&stdout)
	cmd.SetErr(&stderr)
	cmd.SetArgs(append([]string{"--config", configPath, "--data", dataPath}, args...))

	err := cmd.Execute()
	return result{stdout: stdout.String(), stderr: stderr.String(), err: err}
}

func TestRootPrintsSummary(t *testing.T) {
	res := run(t, testDocument, "")
	if res.err != nil {
		t.Fatalf("Execute() error = %v", res.err)
	}

	for _, want := range []string{
		"Reading Blog data from ",
		"Length of blog items: 2\n",
		"Next Blog Entry ID: 3\n",
	} {
		if !strings.Contains(res.stdout, want) {
			t.Errorf("stdout = %q, want %q", res.stdout, want)
		}
	}
}

func TestRootLoadErrors(t *testing.T) {
	tests := []struct {
		name     string
		document string
		config   string
		check    func(err error) bool
	}{
		{
			name:     "malformed document",
			document: `{"blogEntries": [`,
			check: func(err error) bool {
				var parseErr *storage.ParseError
				return errors.As(err, &parseErr)
			},
		},
		{
			name:     "strict by default",
			document: strings.Replace(testDocument, `"nextId": 3`, `"nextId": 1`, 1),
			check: func(err error) bool {
				var parseErr *storage.ParseError
				return errors.As(err, &parseErr)
			},
		},
		{
			name:     "bad config",
			document: testDocument,
			config:   "log:\n  level: loud\n",
			check: func(err error) bool {
				return strings.Contains(err.Error(), "failed to load config")
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			res := run(t, tt.document, tt.config)
			if res.err == nil {
				t.Fatal("Execute() error = nil, want error")
			}
			if !tt.check(res.err) {
				t.Errorf("Execute() error = %v (%T)", res.err, res.err)
			}
		})
	}
}

func TestRootPermissiveConfig(t *testing.T) {
	doc := strings.Replace(testDocument, `"nextId": 3`, `"nextId": 1`, 1)
	res := run(t, doc, "strict: false\n")
	if res.err != nil {
		t.Fatalf("Execute() error = %v", res.err)
	}
	if !strings.Contains(res.stdout, "Next Blog Entry ID: 1") {
		t.Errorf("stdout = %q", res.stdout)
	}
}

func TestRootMissingDataFile(t *testing.T) {
	t.Setenv("BLOG_DATA_FILE", "")
	dir := t.TempDir()

	var stdout bytes.Buffer
	cmd := NewRootCommand()
	cmd.SetOut(&stdout)
	cmd.SetErr(&bytes.Buffer{})
	cmd.SetArgs([]string{"--config", filepath.Join(dir, "none.yaml"), "--data", filepath.Join(dir, "missing.json")})

	err := cmd.Execute()
	var ioErr *storage.IOError
	if !errors.As(err, &ioErr) {
		t.Errorf("Execute() error = %v, want *storage.IOError", err)
	}
}

func TestFind(t *testing.T) {
	tests := []struct {
		name string
		slug string
		want []string
	}{
		{
			name: "present",
			slug: "first_post_finally",
			want: []string{"ID: 1\n", "Title: First Post Finally\n", "Categories: intro, meta\n"},
		},
		{
			name: "absent",
			slug: "non_existent_post",
			want: []string{`No blog entry found for "non_existent_post"`},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			res := run(t, testDocument, "", "find", tt.slug)
			if res.err != nil {
				t.Fatalf("Execute() error = %v", res.err)
			}
			for _, want := range tt.want {
				if !strings.Contains(res.stdout, want) {
					t.Errorf("stdout = %q, want %q", res.stdout, want)
				}
			}
		})
	}
}

func TestFindRequiresSlug(t *testing.T) {
	res := run(t, testDocument, "", "find")
	if res.err == nil {
		t.Error("find without a slug should fail")
	}
}

func TestDemo(t *testing.T) {
	res := run(t, testDocument, "", "demo")
	if res.err != nil {
		t.Fatalf("Execute() error = %v", res.err)
	}

	for _, want := range []string{
		`Find "first_post_finally": id 1, title "First Post Finally"`,
		`Inserted entry 3 "hello_from_go"`,
		`Find "hello_from_go": id 3, title "Hello from Go"`,
		"Deleted 1 entry(s) with id 1",
		`Find "first_post_finally": not found`,
		"Length of blog items: 2\nNext Blog Entry ID: 4\n",
	} {
		if !strings.Contains(res.stdout, want) {
			t.Errorf("stdout = %q, want %q", res.stdout, want)
		}
	}
}

func TestDemoDoesNotWriteDataFile(t *testing.T) {
	t.Setenv("BLOG_DATA_FILE", "")
	dir := t.TempDir()
	dataPath := filepath.Join(dir, "data.json")
	if err := os.WriteFile(dataPath, []byte(testDocument), 0600); err != nil {
		t.Fatalf("Failed to write data file: %v", err)
	}

	cmd := NewRootCommand()
	cmd.SetOut(&bytes.Buffer{})
	cmd.SetErr(&bytes.Buffer{})
	cmd.SetArgs([]string{"--config", filepath.Join(dir, "none.yaml"), "--data", dataPath, "demo"})
	if err := cmd.Execute(); err != nil {
		t.Fatalf("Execute() error = %v", err)
	}

	data, err := os.ReadFile(dataPath)
	if err != nil {
		t.Fatalf("ReadFile() error = %v", err)
	}
	if string(data) != testDocument {
		t.Error("demo modified the data file")
	}
}

func TestRender(t *testing.T) {
	res := run(t, testDocument, "", "render", "second_post")
	if res.err != nil {
		t.Fatalf("Execute() error = %v", res.err)
	}
	if !strings.Contains(res.stdout, "<strong>bold</strong>") {
		t.Errorf("stdout = %q, want rendered markdown", res.stdout)
	}
	if strings.Contains(res.stdout, "<script") {
		t.Errorf("stdout = %q, want script removed", res.stdout)
	}

	res = run(t, testDocument, "", "render", "missing")
	if res.err == nil {
		t.Error("render of a missing slug should fail")
	}
}

func TestFeed(t *testing.T) {
	tests := []struct {
		name   string
		config string
		args   []string
		want   string
	}{
		{name: "default rss", args: []string{"feed"}, want: "<rss"},
		{name: "flag atom", args: []string{"feed", "--format", "atom"}, want: "<feed"},
		{name: "config json", config: "feed:\n  format: json\n  link: https://blog.example.com\n", args: []string{"feed"}, want: "https://blog.example.com/first_post_finally"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			res := run(t, testDocument, tt.config, tt.args...)
			if res.err != nil {
				t.Fatalf("Execute() error = %v", res.err)
			}
			if !strings.Contains(res.stdout, tt.want) {
				t.Errorf("stdout = %q, want %q", res.stdout, tt.want)
			}
		})
	}

	res := run(t, testDocument, "", "feed", "--format", "opml")
	if res.err == nil {
		t.Error("feed with unknown format should fail")
	}
}

func TestExport(t *testing.T) {
	res := run(t, testDocument, "", "export")
	if res.err != nil {
		t.Fatalf("Execute() error = %v", res.err)
	}

	var got, want any
	if err := json.Unmarshal([]byte(res.stdout), &got); err != nil {
		t.Fatalf("export output is not JSON: %v", err)
	}
	if err := json.Unmarshal([]byte(testDocument), &want); err != nil {
		t.Fatalf("test document is not JSON: %v", err)
	}

	gotJSON, _ := json.Marshal(got)
	wantJSON, _ := json.Marshal(want)
	if !bytes.Equal(gotJSON, wantJSON) {
		t.Errorf("export = %s, want %s", gotJSON, wantJSON)
	}
}

func TestValidate(t *testing.T) {
	res := run(t, testDocument, "", "validate")
	if res.err != nil {
		t.Fatalf("Execute() error = %v", res.err)
	}
	if !strings.Contains(res.stdout, "2 entries, next id 3: ok") {
		t.Errorf("stdout = %q", res.stdout)
	}

	doc := strings.Replace(testDocument, `"second_post"`, `"first_post_finally"`, 1)
	doc = strings.Replace(doc, `"nextId": 3`, `"nextId": 2`, 1)
	res = run(t, doc, "", "validate")
	if res.err == nil || !strings.Contains(res.err.Error(), "2 issue(s)") {
		t.Fatalf("Execute() error = %v, want 2 issues", res.err)
	}
	if strings.Count(res.stdout, "\n- ") != 1 || !strings.HasPrefix(res.stdout, "- ") {
		t.Errorf("stdout = %q, want one line per issue", res.stdout)
	}
}

func TestLoggerWritesToStderr(t *testing.T) {
	res := run(t, testDocument, "log:\n  level: debug\n  format: json\n")
	if res.err != nil {
		t.Fatalf("Execute() error = %v", res.err)
	}
	if !strings.Contains(res.stderr, `"msg":"Loaded blog document"`) {
		t.Errorf("stderr = %q, want JSON log line", res.stderr)
	}
	if strings.Contains(res.stdout, "Loaded blog document") {
		t.Error("log lines leaked to stdout")
	}
}
