package server

import "testing"

func fixedCodes(codes ...string) func() string {
	i := 0
	return func() string {
		code := codes[i%len(codes)]
		i++
		return code
	}
}

func TestCreateRoomAssignsSlotOne(t *testing.T) {
	rg := NewRoomRegistry(fixedCodes("ABCDE"), NewMetrics())
	c := NewClientConn("c1", nil)

	room := rg.CreateRoom(c, DefaultGridSize, DefaultFrameRate)
	if room.Code != "ABCDE" {
		t.Fatalf("code = %q, want ABCDE", room.Code)
	}
	s, got, ok := rg.SessionFor("c1")
	if !ok {
		t.Fatalf("no session for creator")
	}
	if s.Slot != 1 || s.RoomCode != "ABCDE" || got != room {
		t.Fatalf("session = %+v, room match = %v", s, got == room)
	}
	if room.Running() {
		t.Fatalf("room running with one occupant")
	}
}

func TestCreateRoomRetriesOnCodeCollision(t *testing.T) {
	rg := NewRoomRegistry(fixedCodes("AAAAA", "AAAAA", "BBBBB"), NewMetrics())
	first := rg.CreateRoom(NewClientConn("c1", nil), DefaultGridSize, DefaultFrameRate)
	second := rg.CreateRoom(NewClientConn("c2", nil), DefaultGridSize, DefaultFrameRate)
	if first.Code != "AAAAA" || second.Code != "BBBBB" {
		t.Fatalf("codes = %q, %q; want AAAAA, BBBBB", first.Code, second.Code)
	}
}

func TestJoinRoomLifecycle(t *testing.T) {
	rg := NewRoomRegistry(fixedCodes("ABCDE"), NewMetrics())

	if _, res := rg.JoinRoom("ZZZZZ", NewClientConn("cx", nil)); res != JoinNotFound {
		t.Fatalf("join unknown code: result %d, want NotFound", res)
	}

	rg.CreateRoom(NewClientConn("c1", nil), DefaultGridSize, DefaultFrameRate)

	room, res := rg.JoinRoom("ABCDE", NewClientConn("c2", nil))
	if res != JoinOK {
		t.Fatalf("join fresh room: result %d, want OK", res)
	}
	if s, _, ok := rg.SessionFor("c2"); !ok || s.Slot != 2 {
		t.Fatalf("joiner session = %+v, want slot 2", s)
	}
	if room.occupants != 2 {
		t.Fatalf("occupants = %d, want 2", room.occupants)
	}

	if _, res := rg.JoinRoom("ABCDE", NewClientConn("c3", nil)); res != JoinFull {
		t.Fatalf("third join: result %d, want Full", res)
	}
}

func TestRemoveRoomClearsSessions(t *testing.T) {
	rg := NewRoomRegistry(fixedCodes("ABCDE"), NewMetrics())
	rg.CreateRoom(NewClientConn("c1", nil), DefaultGridSize, DefaultFrameRate)
	rg.JoinRoom("ABCDE", NewClientConn("c2", nil))

	rg.RemoveRoom("ABCDE")
	if rg.HasRoom("ABCDE") {
		t.Fatalf("room still present after removal")
	}
	for _, id := range []string{"c1", "c2"} {
		if _, _, ok := rg.SessionFor(id); ok {
			t.Fatalf("session %s survived room removal", id)
		}
	}
	// 重复删除无害
	rg.RemoveRoom("ABCDE")
}

func TestDetachConnRemovesSession(t *testing.T) {
	rg := NewRoomRegistry(fixedCodes("ABCDE"), NewMetrics())
	room := rg.CreateRoom(NewClientConn("c1", nil), DefaultGridSize, DefaultFrameRate)

	s, got, ok := rg.DetachConn("c1")
	if !ok || got != room || s.Slot != 1 {
		t.Fatalf("detach: ok=%v session=%+v", ok, s)
	}
	if _, _, ok := rg.SessionFor("c1"); ok {
		t.Fatalf("session survived detach")
	}
	if _, _, ok := rg.DetachConn("c1"); ok {
		t.Fatalf("second detach reported a session")
	}
}
