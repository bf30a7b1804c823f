package session

import (
	"sync"
	"testing"

	"github.com/jayrweg/afya-plus/entity"
)

func TestAcquireCreatesOnFirstContact(t *testing.T) {
	s := NewStore()

	sess, release := s.Acquire("user-1")
	release()

	if sess.ID != "user-1" {
		t.Fatalf("session id = %q, want user-1", sess.ID)
	}
	if sess.Stage != entity.StageLanguage {
		t.Fatalf("new session stage = %q", sess.Stage)
	}
	if s.Len() != 1 {
		t.Fatalf("store len = %d, want 1", s.Len())
	}
}

func TestAcquireGeneratesIDWhenEmpty(t *testing.T) {
	s := NewStore()

	first, release := s.Acquire("")
	release()
	second, release := s.Acquire("")
	release()

	if first.ID == "" || second.ID == "" {
		t.Fatal("generated id is empty")
	}
	if first.ID == second.ID {
		t.Fatalf("two anonymous sessions share id %s", first.ID)
	}
}

func TestAcquireReturnsSameSession(t *testing.T) {
	s := NewStore()

	sess, release := s.Acquire("user-1")
	sess.Language = entity.LangEN
	release()

	again, release := s.Acquire("user-1")
	release()
	if again != sess {
		t.Fatal("second acquire returned a different session")
	}
	if again.Language != entity.LangEN {
		t.Fatal("session state not retained")
	}
}

func TestPeekDoesNotCreate(t *testing.T) {
	s := NewStore()
	if got := s.Peek("missing"); got != nil {
		t.Fatalf("peek created a session: %+v", got)
	}
	if s.Len() != 0 {
		t.Fatalf("store len = %d after peek", s.Len())
	}
}

func TestFindByOrderToken(t *testing.T) {
	s := NewStore()

	sess, release := s.Acquire("user-1")
	sess.ActiveOrder = &entity.Order{Token: "tok-42"}
	release()
	_, release = s.Acquire("user-2")
	release()

	if got := s.FindByOrderToken("tok-42"); got != sess {
		t.Fatal("session not found by order token")
	}
	if got := s.FindByOrderToken("tok-99"); got != nil {
		t.Fatal("unexpected match for unknown token")
	}
}

func TestAcquireSerializesSameSession(t *testing.T) {
	s := NewStore()

	const n = 50
	var wg sync.WaitGroup
	for i := 0; i < n; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			sess, release := s.Acquire("user-1")
			defer release()
			// Read-modify-write is safe only if the lock serializes turns.
			v, _ := sess.Context["count"].(int)
			sess.Context["count"] = v + 1
		}()
	}
	wg.Wait()

	sess := s.Peek("user-1")
	if got, _ := sess.Context["count"].(int); got != n {
		t.Fatalf("count = %d, want %d", got, n)
	}
}
