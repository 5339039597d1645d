package session

import (
	"sync"
	"testing"
	"time"

	"github.com/tuanvm/draftguard/internal/extract"
	"github.com/tuanvm/draftguard/internal/model"
)

func testCanon(t *testing.T, draftID string) model.Canon {
	t.Helper()
	draft := "Hook của bản nháp thử nghiệm.\n\nThân bài của bản nháp thử nghiệm.\n\nInbox ngay nhé"
	return extract.NewCanonExtractor().Extract(draftID, draft)
}

func TestStore_SaveLoadRoundTrip(t *testing.T) {
	store := NewStore(t.TempDir(), time.Minute, time.Hour)
	canon := testCanon(t, "post-1")

	if err := store.Save(canon); err != nil {
		t.Fatalf("save failed: %v", err)
	}

	loaded, found, err := store.Load("post-1")
	if err != nil {
		t.Fatalf("load failed: %v", err)
	}
	if !found {
		t.Fatal("saved canon should be found")
	}
	if loaded.Hook.Text != canon.Hook.Text {
		t.Errorf("hook mismatch: %q", loaded.Hook.Text)
	}
	if loaded.Meta.Revision != canon.Meta.Revision {
		t.Errorf("revision mismatch: %d", loaded.Meta.Revision)
	}
}

func TestStore_LoadUnknownDraft(t *testing.T) {
	store := NewStore(t.TempDir(), time.Minute, time.Hour)

	_, found, err := store.Load("never-saved")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if found {
		t.Error("unknown draft should not be found")
	}
}

func TestStore_LoadedCopyIsIsolated(t *testing.T) {
	store := NewStore(t.TempDir(), time.Minute, time.Hour)
	canon := testCanon(t, "post-2")
	if err := store.Save(canon); err != nil {
		t.Fatalf("save failed: %v", err)
	}

	loaded, _, _ := store.Load("post-2")
	loaded.Hook.Text = "đã bị sửa ngoài store"
	if len(loaded.Body.Blocks) > 0 {
		loaded.Body.Blocks[0].Text = "cũng bị sửa"
	}

	again, _, _ := store.Load("post-2")
	if again.Hook.Text != canon.Hook.Text {
		t.Error("mutating a loaded copy must not leak into the store")
	}
	if again.Body.Blocks[0].Text != canon.Body.Blocks[0].Text {
		t.Error("mutating loaded body blocks must not leak into the store")
	}
}

func TestStore_DiskPromotion(t *testing.T) {
	dir := t.TempDir()

	first := NewStore(dir, time.Minute, time.Hour)
	canon := testCanon(t, "post-3")
	if err := first.Save(canon); err != nil {
		t.Fatalf("save failed: %v", err)
	}

	// A fresh store has a cold memory layer and must hit the disk
	second := NewStore(dir, time.Minute, time.Hour)
	loaded, found, err := second.Load("post-3")
	if err != nil {
		t.Fatalf("load failed: %v", err)
	}
	if !found {
		t.Fatal("disk entry should be found by a fresh store")
	}
	if loaded.CTA.Text != canon.CTA.Text {
		t.Errorf("cta mismatch after disk round-trip: %q", loaded.CTA.Text)
	}
}

func TestStore_ExpiredDiskEntry(t *testing.T) {
	dir := t.TempDir()

	writer := NewStore(dir, time.Minute, -time.Minute)
	if err := writer.Save(testCanon(t, "post-4")); err != nil {
		t.Fatalf("save failed: %v", err)
	}

	reader := NewStore(dir, time.Minute, time.Hour)
	_, found, err := reader.Load("post-4")
	if err != nil {
		t.Fatalf("load failed: %v", err)
	}
	if found {
		t.Error("expired disk entry should be treated as absent")
	}
}

func TestStore_Delete(t *testing.T) {
	store := NewStore(t.TempDir(), time.Minute, time.Hour)
	if err := store.Save(testCanon(t, "post-5")); err != nil {
		t.Fatalf("save failed: %v", err)
	}

	if err := store.Delete("post-5"); err != nil {
		t.Fatalf("delete failed: %v", err)
	}

	_, found, _ := store.Load("post-5")
	if found {
		t.Error("deleted draft should not be found")
	}

	// Deleting again is not an error
	if err := store.Delete("post-5"); err != nil {
		t.Errorf("double delete should be a no-op, got %v", err)
	}
}

func TestStore_SaveRequiresDraftID(t *testing.T) {
	store := NewStore(t.TempDir(), time.Minute, time.Hour)

	if err := store.Save(model.Canon{}); err == nil {
		t.Error("saving a canon without a draft id should fail")
	}
}

func TestStore_LockSerializesWriters(t *testing.T) {
	store := NewStore(t.TempDir(), time.Minute, time.Hour)

	// Unsynchronized read-modify-write made safe only by the store lock
	counter := 0
	var wg sync.WaitGroup
	for i := 0; i < 20; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			unlock := store.Lock("post-6")
			defer unlock()
			v := counter
			time.Sleep(time.Millisecond)
			counter = v + 1
		}()
	}
	wg.Wait()

	if counter != 20 {
		t.Errorf("lock should serialize writers, got %d of 20 increments", counter)
	}
}

func TestSessionKey_StableAndDistinct(t *testing.T) {
	if sessionKey("post-1") != sessionKey("post-1") {
		t.Error("session key must be deterministic")
	}
	if sessionKey("post-1") == sessionKey("post-2") {
		t.Error("distinct drafts must map to distinct keys")
	}
}
