package api

import (
	"testing"

	"github.com/lookbusy1344/regdeps-toolkit/regdeps"
	"github.com/lookbusy1344/regdeps-toolkit/stream"
)

func encodedSample(t *testing.T) []byte {
	t.Helper()
	insts := []*regdeps.Instruction{
		{Category: regdeps.CategoryIntMath, Dsts: []regdeps.Reg{regdeps.V(1)}},
		{Category: regdeps.CategoryBranch, Srcs: []regdeps.Reg{regdeps.V(1)}, Dsts: []regdeps.Reg{regdeps.V(2)}},
	}
	buf, err := stream.Encode(insts)
	if err != nil {
		t.Fatalf("Encode: %v", err)
	}
	return buf
}

func TestSessionManagerCreateAndGet(t *testing.T) {
	sm := NewSessionManager(NewBroadcaster())

	session, err := sm.CreateSession(SessionCreateRequest{Data: encodedSample(t)})
	if err != nil {
		t.Fatalf("CreateSession: %v", err)
	}
	if session.Service.Length() != 2 {
		t.Errorf("Length() = %d, want 2", session.Service.Length())
	}

	got, err := sm.GetSession(session.ID)
	if err != nil {
		t.Fatalf("GetSession: %v", err)
	}
	if got.ID != session.ID {
		t.Errorf("GetSession returned a different session")
	}
}

func TestSessionManagerDestroyAndList(t *testing.T) {
	sm := NewSessionManager(NewBroadcaster())

	session, err := sm.CreateSession(SessionCreateRequest{Data: encodedSample(t)})
	if err != nil {
		t.Fatalf("CreateSession: %v", err)
	}

	if n := sm.Count(); n != 1 {
		t.Errorf("Count() = %d, want 1", n)
	}

	if err := sm.DestroySession(session.ID); err != nil {
		t.Fatalf("DestroySession: %v", err)
	}

	if _, err := sm.GetSession(session.ID); err != ErrSessionNotFound {
		t.Errorf("GetSession after destroy: err = %v, want ErrSessionNotFound", err)
	}

	if err := sm.DestroySession(session.ID); err != ErrSessionNotFound {
		t.Errorf("DestroySession twice: err = %v, want ErrSessionNotFound", err)
	}
}

func TestSessionManagerGetUnknown(t *testing.T) {
	sm := NewSessionManager(NewBroadcaster())

	if _, err := sm.GetSession("nope"); err != ErrSessionNotFound {
		t.Errorf("GetSession(unknown) = %v, want ErrSessionNotFound", err)
	}
}
