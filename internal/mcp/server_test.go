package mcp

import (
	"context"
	"encoding/json"
	"os"
	"path/filepath"
	"runtime"
	"strings"
	"testing"

	"github.com/mark3labs/mcp-go/mcp"
	"github.com/spf13/afero"

	"vfsutil/internal/config"
	"vfsutil/internal/logging"
	"vfsutil/pkg/fileops"
	"vfsutil/pkg/volume"
)

func createTestServer(t *testing.T, roots ...string) (*Server, afero.Fs) {
	t.Helper()

	fsys := afero.NewMemMapFs()
	if err := fsys.MkdirAll("/data/in", 0o755); err != nil {
		t.Fatalf("failed to create test directory: %v", err)
	}
	if err := afero.WriteFile(fsys, "/data/in/a.txt", []byte("alpha"), 0o644); err != nil {
		t.Fatalf("failed to create test file: %v", err)
	}
	if err := afero.WriteFile(fsys, "/data/in/b.txt", []byte("alpha"), 0o644); err != nil {
		t.Fatalf("failed to create test file: %v", err)
	}
	if err := afero.WriteFile(fsys, "/data/in/c.txt", []byte("gamma"), 0o644); err != nil {
		t.Fatalf("failed to create test file: %v", err)
	}

	cfg := config.DefaultConfig()
	cfg.AllowedRoots = roots
	logger, _ := logging.NewTestLogger()
	mounts := func() ([]volume.Mount, error) {
		return []volume.Mount{
			{Root: "/", Device: "/dev/sda1", FSType: "ext4"},
			{Root: "/media/usb", Device: "/dev/sdb1", FSType: "vfat"},
		}, nil
	}

	s, err := NewServer(&cfg, logger, fileops.NewManager(fsys, logger), volume.NewTable(fsys, mounts, logger))
	if err != nil {
		t.Fatalf("NewServer failed: %v", err)
	}
	return s, fsys
}

func callTool(t *testing.T, handler func(context.Context, mcp.CallToolRequest) (*mcp.CallToolResult, error), args map[string]any) (string, bool) {
	t.Helper()

	var request mcp.CallToolRequest
	request.Params.Arguments = args

	result, err := handler(context.Background(), request)
	if err != nil {
		t.Fatalf("handler returned protocol error: %v", err)
	}
	if result == nil || len(result.Content) == 0 {
		t.Fatal("handler returned empty result")
	}
	text, ok := result.Content[0].(mcp.TextContent)
	if !ok {
		t.Fatalf("expected text content, got %T", result.Content[0])
	}
	return text.Text, result.IsError
}

func TestNewServer(t *testing.T) {
	s, _ := createTestServer(t)

	if s.mcpServer == nil {
		t.Fatal("MCP server should be created by NewServer")
	}
	if s.config == nil {
		t.Error("Server config not set")
	}
	if len(s.roots) != 0 {
		t.Errorf("expected no allowed roots, got %d", len(s.roots))
	}
}

func TestNewServer_InvalidRoot(t *testing.T) {
	cfg := config.DefaultConfig()
	cfg.AllowedRoots = []string{"sftp://host/%zz"}
	logger, _ := logging.NewTestLogger()

	if _, err := NewServer(&cfg, logger, nil, nil); err == nil {
		t.Error("expected error for an unparsable allowed root")
	}
}

func TestToolsList(t *testing.T) {
	s, _ := createTestServer(t)

	raw := []byte(`{"jsonrpc":"2.0","id":1,"method":"tools/list"}`)
	response := s.MCPServer().HandleMessage(context.Background(), raw)
	data, err := json.Marshal(response)
	if err != nil {
		t.Fatalf("failed to marshal response: %v", err)
	}

	for _, name := range []string{"copy_file", "free_space", "compare_checksum", "display_name", "is_descendant", "guess_device_type"} {
		if !strings.Contains(string(data), `"`+name+`"`) {
			t.Errorf("tool %s missing from tools/list response", name)
		}
	}
}

func TestHandleCopyFile(t *testing.T) {
	s, fsys := createTestServer(t, "/data")

	text, isErr := callTool(t, s.handleCopyFile, map[string]any{
		"source":      "/data/in/a.txt",
		"destination": "/data/in/copy.txt",
	})
	if isErr {
		t.Fatalf("copy_file failed: %s", text)
	}
	content, err := afero.ReadFile(fsys, "/data/in/copy.txt")
	if err != nil {
		t.Fatalf("destination not created: %v", err)
	}
	if string(content) != "alpha" {
		t.Errorf("expected copied content 'alpha', got %q", content)
	}

	t.Run("existing destination without overwrite", func(t *testing.T) {
		_, isErr := callTool(t, s.handleCopyFile, map[string]any{
			"source":      "/data/in/c.txt",
			"destination": "/data/in/copy.txt",
		})
		if !isErr {
			t.Error("expected error result when destination exists")
		}
		content, _ := afero.ReadFile(fsys, "/data/in/copy.txt")
		if string(content) != "alpha" {
			t.Errorf("destination must be untouched, got %q", content)
		}
	})

	t.Run("existing destination with overwrite", func(t *testing.T) {
		text, isErr := callTool(t, s.handleCopyFile, map[string]any{
			"source":      "/data/in/c.txt",
			"destination": "/data/in/copy.txt",
			"overwrite":   true,
		})
		if isErr {
			t.Fatalf("overwrite failed: %s", text)
		}
		content, _ := afero.ReadFile(fsys, "/data/in/copy.txt")
		if string(content) != "gamma" {
			t.Errorf("expected overwritten content 'gamma', got %q", content)
		}
	})

	t.Run("destination outside allowed roots", func(t *testing.T) {
		_, isErr := callTool(t, s.handleCopyFile, map[string]any{
			"source":      "/data/in/a.txt",
			"destination": "/etc/evil",
		})
		if !isErr {
			t.Error("expected error result for destination outside roots")
		}
		if exists, _ := afero.Exists(fsys, "/etc/evil"); exists {
			t.Error("file must not be created outside allowed roots")
		}
	})

	t.Run("missing argument", func(t *testing.T) {
		_, isErr := callTool(t, s.handleCopyFile, map[string]any{"source": "/data/in/a.txt"})
		if !isErr {
			t.Error("expected error result for missing destination")
		}
	})
}

func TestHandleCopyFile_SymlinkOutOfRoot(t *testing.T) {
	if runtime.GOOS == "windows" {
		t.Skip("symlinks need extra privileges on windows")
	}

	base := t.TempDir()
	root := filepath.Join(base, "root")
	outside := filepath.Join(base, "outside")
	for _, dir := range []string{root, outside} {
		if err := os.Mkdir(dir, 0o755); err != nil {
			t.Fatalf("failed to create test directory: %v", err)
		}
	}
	if err := os.WriteFile(filepath.Join(outside, "secret.txt"), []byte("top secret"), 0o644); err != nil {
		t.Fatalf("failed to create test file: %v", err)
	}
	if err := os.WriteFile(filepath.Join(root, "notes.txt"), []byte("notes"), 0o644); err != nil {
		t.Fatalf("failed to create test file: %v", err)
	}
	if err := os.Symlink(outside, filepath.Join(root, "link")); err != nil {
		t.Fatalf("failed to create symlink: %v", err)
	}

	cfg := config.DefaultConfig()
	cfg.AllowedRoots = []string{root}
	logger, _ := logging.NewTestLogger()
	s, err := NewServer(&cfg, logger, fileops.NewManager(afero.NewOsFs(), logger), nil)
	if err != nil {
		t.Fatalf("NewServer failed: %v", err)
	}

	t.Run("source read through link", func(t *testing.T) {
		_, isErr := callTool(t, s.handleCopyFile, map[string]any{
			"source":      filepath.Join(root, "link", "secret.txt"),
			"destination": filepath.Join(root, "leaked.txt"),
		})
		if !isErr {
			t.Error("expected error result for a source outside the root")
		}
		if _, err := os.Stat(filepath.Join(root, "leaked.txt")); err == nil {
			t.Error("file outside the root must not be copied in")
		}
	})

	t.Run("destination written through link", func(t *testing.T) {
		_, isErr := callTool(t, s.handleCopyFile, map[string]any{
			"source":      filepath.Join(root, "notes.txt"),
			"destination": filepath.Join(root, "link", "planted.txt"),
		})
		if !isErr {
			t.Error("expected error result for a destination outside the root")
		}
		if _, err := os.Stat(filepath.Join(outside, "planted.txt")); err == nil {
			t.Error("file must not be created outside the root")
		}
	})

	t.Run("checksum through link", func(t *testing.T) {
		_, isErr := callTool(t, s.handleCompareChecksum, map[string]any{
			"first":  filepath.Join(root, "notes.txt"),
			"second": filepath.Join(root, "link", "secret.txt"),
		})
		if !isErr {
			t.Error("expected error result for a file outside the root")
		}
	})

	t.Run("copy inside the root", func(t *testing.T) {
		text, isErr := callTool(t, s.handleCopyFile, map[string]any{
			"source":      filepath.Join(root, "notes.txt"),
			"destination": filepath.Join(root, "notes-copy.txt"),
		})
		if isErr {
			t.Fatalf("copy_file failed: %s", text)
		}
	})
}

func TestHandleCompareChecksum(t *testing.T) {
	s, _ := createTestServer(t)

	tests := []struct {
		name    string
		first   string
		second  string
		want    string
		wantErr bool
	}{
		{"identical", "/data/in/a.txt", "/data/in/b.txt", "identical", false},
		{"different", "/data/in/a.txt", "/data/in/c.txt", "different", false},
		{"missing file", "/data/in/a.txt", "/data/in/none.txt", "", true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			text, isErr := callTool(t, s.handleCompareChecksum, map[string]any{"first": tt.first, "second": tt.second})
			if isErr != tt.wantErr {
				t.Fatalf("expected error=%v, got %v (%s)", tt.wantErr, isErr, text)
			}
			if !tt.wantErr && text != tt.want {
				t.Errorf("expected %q, got %q", tt.want, text)
			}
		})
	}
}

func TestHandleDisplayName(t *testing.T) {
	s, _ := createTestServer(t)

	tests := []struct {
		arg  string
		want string
	}{
		{"/data/in/a.txt", "a.txt"},
		{"/", "File System"},
		{"trash:///", "Trash"},
	}
	for _, tt := range tests {
		text, isErr := callTool(t, s.handleDisplayName, map[string]any{"location": tt.arg})
		if isErr {
			t.Errorf("display_name(%s) failed: %s", tt.arg, text)
			continue
		}
		if text != tt.want {
			t.Errorf("display_name(%s) = %q, want %q", tt.arg, text, tt.want)
		}
	}

	if _, isErr := callTool(t, s.handleDisplayName, map[string]any{"location": "gopher://host/"}); !isErr {
		t.Error("expected error result for unsupported scheme")
	}
	if _, isErr := callTool(t, s.handleDisplayName, map[string]any{"location": "sftp://user@files.example.com/home"}); !isErr {
		t.Error("expected error result for a scheme missing from the default config")
	}
}

func TestHandleDisplayName_RemoteScheme(t *testing.T) {
	s, _ := createTestServer(t)
	s.config.SupportedSchemes = append(s.config.SupportedSchemes, "sftp", "smb")

	tests := []struct {
		arg  string
		want string
	}{
		{"sftp://user@files.example.com/home/user", "/home/user on files.example.com"},
		{"smb://nas/share", "/share on nas"},
	}
	for _, tt := range tests {
		text, isErr := callTool(t, s.handleDisplayName, map[string]any{"location": tt.arg})
		if isErr {
			t.Errorf("display_name(%s) failed: %s", tt.arg, text)
			continue
		}
		if text != tt.want {
			t.Errorf("display_name(%s) = %q, want %q", tt.arg, text, tt.want)
		}
	}
}

func TestHandleIsDescendant(t *testing.T) {
	s, _ := createTestServer(t)

	tests := []struct {
		descendant string
		ancestor   string
		want       string
	}{
		{"/data/in/a.txt", "/data", "true"},
		{"/data", "/data", "true"},
		{"/data2/x", "/data", "false"},
		{"/data", "/data/in", "false"},
	}
	for _, tt := range tests {
		text, isErr := callTool(t, s.handleIsDescendant, map[string]any{"descendant": tt.descendant, "ancestor": tt.ancestor})
		if isErr {
			t.Errorf("is_descendant(%s, %s) failed: %s", tt.descendant, tt.ancestor, text)
			continue
		}
		if text != tt.want {
			t.Errorf("is_descendant(%s, %s) = %s, want %s", tt.descendant, tt.ancestor, text, tt.want)
		}
	}
}

func TestHandleGuessDeviceType(t *testing.T) {
	s, _ := createTestServer(t)

	text, isErr := callTool(t, s.handleGuessDeviceType, map[string]any{"location": "/media/usb/photo.jpg"})
	if isErr || text != "Removable Drive" {
		t.Errorf("expected 'Removable Drive', got %q (error=%v)", text, isErr)
	}

	text, isErr = callTool(t, s.handleGuessDeviceType, map[string]any{"location": "/data/in/a.txt"})
	if isErr || text != "unknown" {
		t.Errorf("expected 'unknown', got %q (error=%v)", text, isErr)
	}
}

func TestHandleFreeSpace(t *testing.T) {
	s, _ := createTestServer(t, "/data")

	if _, isErr := callTool(t, s.handleFreeSpace, map[string]any{"location": "/etc"}); !isErr {
		t.Error("expected error result outside allowed roots")
	}

	if runtime.GOOS != "linux" {
		t.Skip("free space is only reported on linux")
	}

	open, _ := createTestServer(t)
	text, isErr := callTool(t, open.handleFreeSpace, map[string]any{"location": t.TempDir()})
	if isErr {
		t.Fatalf("free_space failed: %s", text)
	}
	if !strings.Contains(text, "used") || !strings.Contains(text, "free") {
		t.Errorf("unexpected free space text: %q", text)
	}
}
