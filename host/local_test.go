package host_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/mwantia/hostfs/backend/badger"
	"github.com/mwantia/hostfs/backend/direct"
	"github.com/mwantia/hostfs/backend/ephemeral"
	"github.com/mwantia/hostfs/backend/sqlite"
	"github.com/mwantia/hostfs/data"
	"github.com/mwantia/hostfs/host"
)

type TestHostFactory func(tst *testing.T) (*host.Local, error)

func GetTestHostFactories() map[string]TestHostFactory {
	return map[string]TestHostFactory{
		"ephemeral": func(tst *testing.T) (*host.Local, error) {
			return host.NewLocal(ephemeral.NewEphemeralBackend()), nil
		},
		"sqlite": func(tst *testing.T) (*host.Local, error) {
			storage, err := sqlite.NewSQLiteBackend(":memory:")
			if err != nil {
				return nil, err
			}
			return host.NewLocal(storage), nil
		},
		"badger": func(tst *testing.T) (*host.Local, error) {
			storage, err := badger.NewBadgerBackend(tst.TempDir())
			if err != nil {
				return nil, err
			}
			return host.NewLocal(storage), nil
		},
		"direct": func(tst *testing.T) (*host.Local, error) {
			storage, err := direct.NewDirectBackend(tst.TempDir())
			if err != nil {
				return nil, err
			}
			return host.NewLocal(storage), nil
		},
	}
}

func openHost(tst *testing.T, factory TestHostFactory) *host.Local {
	local, err := factory(tst)
	if err != nil {
		tst.Fatalf("Factory failed: %v", err)
	}
	if err := local.Open(tst.Context()); err != nil {
		tst.Fatalf("Open failed: %v", err)
	}
	tst.Cleanup(func() {
		local.Close(context.Background())
	})
	return local
}

func mustSnapshot(tst *testing.T) func(raw string, err error) *data.ItemSnapshot {
	return func(raw string, err error) *data.ItemSnapshot {
		tst.Helper()
		if err != nil {
			tst.Fatalf("Host call failed: %v", err)
		}
		snapshot, err := data.DecodeSnapshot(raw)
		if err != nil {
			tst.Fatalf("DecodeSnapshot failed: %v", err)
		}
		if snapshot == nil {
			tst.Fatalf("Expected a snapshot, got null")
		}
		return snapshot
	}
}

// TestAllHosts_CreateAndProbe verifies creation, typed probing and null results.
func TestAllHosts_CreateAndProbe(t *testing.T) {
	for name, factory := range GetTestHostFactories() {
		t.Run(name, func(tst *testing.T) {
			ctx := tst.Context()
			local := openHost(tst, factory)

			root := mustSnapshot(tst)(local.OpenPrivateRoot(ctx))
			if root.IsFile {
				tst.Fatalf("Expected root to be a folder")
			}
			again := mustSnapshot(tst)(local.OpenPrivateRoot(ctx))
			if again.ID != root.ID {
				tst.Errorf("Expected stable root identifier, got '%s' and '%s'", root.ID, again.ID)
			}

			folder := mustSnapshot(tst)(local.CreateFolder(ctx, root.ID, "docs"))
			if folder.Name != "docs" || folder.IsFile {
				tst.Errorf("Unexpected folder snapshot: %+v", folder)
			}
			file := mustSnapshot(tst)(local.CreateFile(ctx, folder.ID, "a.txt"))
			if file.Name != "a.txt" || !file.IsFile {
				tst.Errorf("Unexpected file snapshot: %+v", file)
			}

			probed := mustSnapshot(tst)(local.TryGetFile(ctx, folder.ID, "a.txt"))
			if probed.ID != file.ID {
				tst.Errorf("Expected probe to return '%s', got '%s'", file.ID, probed.ID)
			}

			raw, err := local.TryGetFolder(ctx, folder.ID, "a.txt")
			if err != nil || raw != "" {
				tst.Errorf("Expected null for a kind mismatch, got '%s' (%v)", raw, err)
			}
			raw, err = local.TryGetFile(ctx, folder.ID, "missing")
			if err != nil || raw != "" {
				tst.Errorf("Expected null for a missing name, got '%s' (%v)", raw, err)
			}

			raw, err = local.CreateFolder(ctx, folder.ID, "a.txt")
			if err != nil || raw != "" {
				tst.Errorf("Expected null when the name is taken, got '%s' (%v)", raw, err)
			}
			raw, err = local.CreateFile(ctx, folder.ID, "../escape")
			if err != nil || raw != "" {
				tst.Errorf("Expected null for an invalid name, got '%s' (%v)", raw, err)
			}
		})
	}
}

// TestAllHosts_List verifies listing filters by kind.
func TestAllHosts_List(t *testing.T) {
	for name, factory := range GetTestHostFactories() {
		t.Run(name, func(tst *testing.T) {
			ctx := tst.Context()
			local := openHost(tst, factory)

			root := mustSnapshot(tst)(local.OpenPrivateRoot(ctx))
			mustSnapshot(tst)(local.CreateFolder(ctx, root.ID, "folder"))
			mustSnapshot(tst)(local.CreateFile(ctx, root.ID, "file.txt"))

			for call, want := range map[string]int{"items": 2, "files": 1, "folders": 1} {
				var raw string
				var err error
				switch call {
				case "items":
					raw, err = local.ListItems(ctx, root.ID)
				case "files":
					raw, err = local.ListFiles(ctx, root.ID)
				case "folders":
					raw, err = local.ListFolders(ctx, root.ID)
				}
				if err != nil {
					tst.Fatalf("List %s failed: %v", call, err)
				}

				snapshots, err := data.DecodeSnapshots(raw)
				if err != nil {
					tst.Fatalf("DecodeSnapshots failed: %v", err)
				}
				if len(snapshots) != want {
					tst.Errorf("Expected %d %s, got %d", want, call, len(snapshots))
				}
			}
		})
	}
}

// TestAllHosts_Delete verifies recursive deletes and dangling identifiers.
func TestAllHosts_Delete(t *testing.T) {
	for name, factory := range GetTestHostFactories() {
		t.Run(name, func(tst *testing.T) {
			ctx := tst.Context()
			local := openHost(tst, factory)

			root := mustSnapshot(tst)(local.OpenPrivateRoot(ctx))
			folder := mustSnapshot(tst)(local.CreateFolder(ctx, root.ID, "tree"))
			child := mustSnapshot(tst)(local.CreateFolder(ctx, folder.ID, "child"))

			result, err := local.DeleteItem(ctx, root.ID, "tree")
			if err != nil || result == "" {
				tst.Fatalf("DeleteItem failed: '%s' (%v)", result, err)
			}

			if _, err := local.ListItems(ctx, folder.ID); !errors.Is(err, data.ErrNotExist) {
				tst.Errorf("Expected ErrNotExist for a deleted folder, got: %v", err)
			}
			if _, err := local.ListItems(ctx, child.ID); !errors.Is(err, data.ErrNotExist) {
				tst.Errorf("Expected ErrNotExist for a deleted descendant, got: %v", err)
			}
			if _, err := local.DeleteItem(ctx, root.ID, "tree"); !errors.Is(err, data.ErrNotExist) {
				tst.Errorf("Expected ErrNotExist for a second delete, got: %v", err)
			}
			if _, err := local.CreateFile(ctx, "unknown", "x"); !errors.Is(err, data.ErrNotExist) {
				tst.Errorf("Expected ErrNotExist for an unknown parent, got: %v", err)
			}
		})
	}
}

// TestAllHosts_Streams verifies that seeded content can be read through a stream session.
func TestAllHosts_Streams(t *testing.T) {
	for name, factory := range GetTestHostFactories() {
		t.Run(name, func(tst *testing.T) {
			ctx := tst.Context()
			local := openHost(tst, factory)

			if err := local.WriteFile(ctx, "notes/hello.txt", []byte("Hello, World!")); err != nil {
				tst.Fatalf("WriteFile failed: %v", err)
			}

			root := mustSnapshot(tst)(local.OpenPrivateRoot(ctx))
			notes := mustSnapshot(tst)(local.TryGetFolder(ctx, root.ID, "notes"))
			file := mustSnapshot(tst)(local.TryGetFile(ctx, notes.ID, "hello.txt"))

			length, err := local.OpenStream(ctx, "stream-1", file.ID)
			if err != nil {
				tst.Fatalf("OpenStream failed: %v", err)
			}
			if length != "13" {
				tst.Errorf("Expected length '13', got '%s'", length)
			}

			buffer := make([]byte, 8)
			count, err := local.ReadStream(ctx, "stream-1", buffer, 2, 5, 7)
			if err != nil {
				tst.Fatalf("ReadStream failed: %v", err)
			}
			if count != "5" || string(buffer[2:7]) != "World" {
				tst.Errorf("Expected 5 bytes 'World', got '%s' bytes '%s'", count, buffer[2:7])
			}

			count, err = local.ReadStream(ctx, "stream-1", buffer, 0, 8, 13)
			if err != nil || count != "0" {
				tst.Errorf("Expected 0 bytes at the end, got '%s' (%v)", count, err)
			}

			if _, err := local.ReadStream(ctx, "stream-1", buffer, 4, 8, 0); !errors.Is(err, data.ErrInvalid) {
				tst.Errorf("Expected ErrInvalid for an oversized window, got: %v", err)
			}

			if local.OpenStreams() != 1 {
				tst.Errorf("Expected 1 open stream, got %d", local.OpenStreams())
			}
			local.CloseStream("stream-1")
			if local.OpenStreams() != 0 {
				tst.Errorf("Expected 0 open streams, got %d", local.OpenStreams())
			}

			if _, err := local.ReadStream(ctx, "stream-1", buffer, 0, 1, 0); !errors.Is(err, data.ErrNotExist) {
				tst.Errorf("Expected ErrNotExist after close, got: %v", err)
			}

			raw, err := local.OpenStream(ctx, "stream-2", notes.ID)
			if err != nil || raw != "" {
				tst.Errorf("Expected null when opening a folder, got '%s' (%v)", raw, err)
			}
		})
	}
}

func TestAwait_Result(t *testing.T) {
	value, err := host.Await(t.Context(), func(ctx context.Context) (string, error) {
		return "ok", nil
	})
	if err != nil || value != "ok" {
		t.Fatalf("Expected 'ok', got '%s' (%v)", value, err)
	}
}

func TestAwait_Cancellation(t *testing.T) {
	ctx, cancel := context.WithCancel(t.Context())
	release := make(chan struct{})
	defer close(release)

	go func() {
		time.Sleep(10 * time.Millisecond)
		cancel()
	}()

	_, err := host.Await(ctx, func(context.Context) (string, error) {
		<-release
		return "late", nil
	})
	if !errors.Is(err, context.Canceled) {
		t.Fatalf("Expected context.Canceled, got: %v", err)
	}

	called := false
	_, err = host.Await(ctx, func(context.Context) (string, error) {
		called = true
		return "", nil
	})
	if !errors.Is(err, context.Canceled) || called {
		t.Errorf("Expected an already cancelled context to skip the call, got called=%v (%v)", called, err)
	}
}
