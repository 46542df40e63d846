package session

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/tallyhq/tally/pkg/llm"
)

func TestAppendFillsIDAndTimestamp(t *testing.T) {
	s := &Session{ID: "s1", ActiveRole: "manager"}
	s.Append(UserMessage("hello"))

	if len(s.History) != 1 {
		t.Fatalf("expected 1 message, got %d", len(s.History))
	}
	msg := s.History[0]
	if msg.ID == "" {
		t.Error("message ID not assigned")
	}
	if msg.CreatedAt.IsZero() {
		t.Error("message timestamp not assigned")
	}
	if msg.Role != llm.RoleUser {
		t.Errorf("role = %s, want user", msg.Role)
	}
}

func TestLLMMessagesMirrorsHistory(t *testing.T) {
	s := &Session{ID: "s1"}
	s.Append(
		UserMessage("who is on team 3?"),
		AssistantMessage("", llm.ToolCall{ID: "c1", Type: llm.ToolTypeFunction}),
		ToolMessage("c1", `[{"name":"Ana"}]`),
	)

	msgs := s.LLMMessages()
	if len(msgs) != 3 {
		t.Fatalf("expected 3 messages, got %d", len(msgs))
	}
	if msgs[1].Role != llm.RoleAssistant || len(msgs[1].ToolCalls) != 1 {
		t.Error("assistant tool call not carried over")
	}
	if msgs[2].Role != llm.RoleTool || msgs[2].ToolCallID != "c1" {
		t.Error("tool result linkage lost")
	}
}

func TestAcquireCreatesLazilyAtRoot(t *testing.T) {
	store := NewStore("manager")
	sess, release, err := store.Acquire(context.Background(), "conv-1")
	if err != nil {
		t.Fatalf("acquire failed: %v", err)
	}
	defer release()

	if sess.ActiveRole != "manager" {
		t.Errorf("new session role = %s, want manager", sess.ActiveRole)
	}
	if len(sess.History) != 0 {
		t.Error("new session history must be empty")
	}
	if store.Len() != 1 {
		t.Errorf("store size = %d, want 1", store.Len())
	}
}

func TestAcquireSerializesSameSession(t *testing.T) {
	store := NewStore("manager")
	_, release, err := store.Acquire(context.Background(), "conv-1")
	if err != nil {
		t.Fatalf("acquire failed: %v", err)
	}

	var wg sync.WaitGroup
	entered := make(chan struct{})
	wg.Add(1)
	go func() {
		defer wg.Done()
		_, rel, err := store.Acquire(context.Background(), "conv-1")
		if err != nil {
			t.Errorf("second acquire failed: %v", err)
			return
		}
		close(entered)
		rel()
	}()

	select {
	case <-entered:
		t.Fatal("second acquire must block while lock is held")
	case <-time.After(50 * time.Millisecond):
	}

	release()
	wg.Wait()
}

func TestAcquireHonorsContextCancellation(t *testing.T) {
	store := NewStore("manager")
	_, release, err := store.Acquire(context.Background(), "conv-1")
	if err != nil {
		t.Fatalf("acquire failed: %v", err)
	}
	defer release()

	ctx, cancel := context.WithTimeout(context.Background(), 20*time.Millisecond)
	defer cancel()
	if _, _, err := store.Acquire(ctx, "conv-1"); err == nil {
		t.Fatal("expected context error while lock is held")
	}
}

func TestDiscardResetsToRoot(t *testing.T) {
	store := NewStore("manager")
	sess, release, _ := store.Acquire(context.Background(), "conv-1")
	sess.Append(UserMessage("hi"))
	sess.ActiveRole = "attendance"

	store.Discard("conv-1")
	release()

	sess2, release2, _ := store.Acquire(context.Background(), "conv-1")
	defer release2()
	if len(sess2.History) != 0 {
		t.Errorf("history length = %d after discard, want 0", len(sess2.History))
	}
	if sess2.ActiveRole != "manager" {
		t.Errorf("active role = %s after discard, want manager", sess2.ActiveRole)
	}
}

func TestDiscardRemovesEntry(t *testing.T) {
	store := NewStore("manager")
	sess, release, _ := store.Acquire(context.Background(), "conv-1")
	sess.Append(UserMessage("hi"))

	store.Discard("conv-1")
	release()

	if store.Len() != 0 {
		t.Fatalf("store size = %d after discard, want 0", store.Len())
	}
}

func TestStoreDoesNotGrowAcrossDiscardedSessions(t *testing.T) {
	store := NewStore("manager")
	for _, id := range []string{"conv-1", "conv-2", "conv-3"} {
		_, release, err := store.Acquire(context.Background(), id)
		if err != nil {
			t.Fatalf("acquire %s: %v", id, err)
		}
		store.Discard(id)
		release()
	}
	if store.Len() != 0 {
		t.Fatalf("store size = %d after discards, want 0", store.Len())
	}
}

func TestAcquireDuringDiscardGetsFreshSession(t *testing.T) {
	store := NewStore("manager")
	sess, release, err := store.Acquire(context.Background(), "conv-1")
	if err != nil {
		t.Fatalf("acquire failed: %v", err)
	}
	sess.Append(UserMessage("hi"))
	sess.ActiveRole = "attendance"

	type result struct {
		sess *Session
		err  error
	}
	got := make(chan result, 1)
	go func() {
		s2, rel, err := store.Acquire(context.Background(), "conv-1")
		if err == nil {
			rel()
		}
		got <- result{s2, err}
	}()

	// Let the second acquirer block on the turn lock before discarding.
	time.Sleep(20 * time.Millisecond)
	store.Discard("conv-1")
	release()

	r := <-got
	if r.err != nil {
		t.Fatalf("second acquire failed: %v", r.err)
	}
	if r.sess == sess {
		t.Fatal("second acquire returned the discarded session")
	}
	if r.sess.ActiveRole != "manager" || len(r.sess.History) != 0 {
		t.Fatalf("second acquire did not start fresh: role=%s history=%d",
			r.sess.ActiveRole, len(r.sess.History))
	}
	if store.Len() != 1 {
		t.Fatalf("store size = %d, want 1", store.Len())
	}
}

func TestDistinctSessionsDoNotBlock(t *testing.T) {
	store := NewStore("manager")
	_, release1, err := store.Acquire(context.Background(), "conv-1")
	if err != nil {
		t.Fatalf("acquire conv-1 failed: %v", err)
	}
	defer release1()

	ctx, cancel := context.WithTimeout(context.Background(), 100*time.Millisecond)
	defer cancel()
	_, release2, err := store.Acquire(ctx, "conv-2")
	if err != nil {
		t.Fatalf("acquire conv-2 blocked: %v", err)
	}
	release2()
}
