package ipc

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"net"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gorilla/websocket"

	"github.com/nstehr/prospector/model"
)

const preamble = `{"MAX_TURNS":3,"NEW_ENTITY_ENERGY_COST":1000,"MAX_ENERGY":1000,"EXTRACT_RATIO":4,"MOVE_COST_RATIO":10,"DROPOFF_COST":4000,"INSPIRATION_ENABLED":true,"INSPIRATION_RADIUS":4,"INSPIRATION_SHIP_COUNT":2,"INSPIRED_BONUS_MULTIPLIER":2.0,"game_seed":42}
2 1
0 0 0
1 2 2
4 3
1 2 3 4
5 6 7 8
9 10 11 12
`

const frame = `1
0 1 0 1500
4 1 1 250
1 1 1 800
7 2 2 0
0 2 1
1
2 0 0
`

func TestStdioHost(t *testing.T) {
	var out strings.Builder
	h := NewStdioHost(strings.NewReader(preamble+frame), &out)
	g, err := h.Init()
	if err != nil {
		t.Fatalf("Init: %v", err)
	}
	if g.MyID != 1 || len(g.Players) != 2 || g.Map.Width != 4 || g.Map.Height != 3 {
		t.Fatalf("bad game: id=%d players=%d %dx%d", g.MyID, len(g.Players), g.Map.Width, g.Map.Height)
	}
	if g.Constants.MaxTurns != 3 || g.Constants.GameSeed != 42 {
		t.Errorf("constants = %+v", g.Constants)
	}
	if got := g.Map.At(model.Position{X: 3, Y: 1}).Halite; got != 8 {
		t.Errorf("cell (3,1) = %d, want 8", got)
	}
	if err := h.Ready("Prospector"); err != nil {
		t.Fatal(err)
	}

	ctx := context.Background()
	if _, err := h.UpdateFrame(ctx); err != nil {
		t.Fatalf("UpdateFrame: %v", err)
	}
	if g.Turn != 1 || g.Me().Halite != 800 || g.Player(0).Halite != 1500 {
		t.Errorf("turn=%d banks=%d/%d", g.Turn, g.Player(0).Halite, g.Me().Halite)
	}
	ship := g.Ship(4)
	if ship == nil || ship.Owner != 0 || ship.Pos != (model.Position{X: 1, Y: 1}) || ship.Halite != 250 {
		t.Errorf("ship 4 = %+v", ship)
	}
	if g.Ship(7) == nil || g.Me().Dropoffs[0] == nil {
		t.Error("own ship or dropoff missing")
	}
	if !g.Map.At(model.Position{X: 2, Y: 1}).HasStructure() {
		t.Error("dropoff not on the map")
	}
	if got := g.Map.At(model.Position{X: 2, Y: 0}).Halite; got != 0 {
		t.Errorf("updated cell = %d, want 0", got)
	}

	more, err := h.EndTurn(ctx, []model.Command{model.Move(7, model.North), model.Spawn()})
	if err != nil || !more {
		t.Fatalf("EndTurn = %v, %v", more, err)
	}
	if want := "Prospector\nm 7 n g\n"; out.String() != want {
		t.Errorf("output = %q, want %q", out.String(), want)
	}
	if _, err := h.UpdateFrame(ctx); !errors.Is(err, io.EOF) {
		t.Errorf("after last frame: %v, want EOF", err)
	}
}

func TestStdioHostTruncatedFrame(t *testing.T) {
	h := NewStdioHost(strings.NewReader(preamble+"1\n0 1 0"), io.Discard)
	if _, err := h.Init(); err != nil {
		t.Fatal(err)
	}
	_, err := h.UpdateFrame(context.Background())
	if err == nil || err == io.EOF {
		t.Errorf("truncated frame error = %v", err)
	}
}

func TestParseCommand(t *testing.T) {
	tests := []struct {
		in      string
		want    model.Command
		wantErr bool
	}{
		{in: "g", want: model.Spawn()},
		{in: "c 12", want: model.Convert(12)},
		{in: "m 3 w", want: model.Move(3, model.West)},
		{in: "m 3 o", want: model.StayStill(3)},
		{in: "m 3 x", wantErr: true},
		{in: "m three n", wantErr: true},
		{in: "g 1", wantErr: true},
		{in: "", wantErr: true},
	}
	for _, tt := range tests {
		got, err := ParseCommand(tt.in)
		if (err != nil) != tt.wantErr {
			t.Errorf("ParseCommand(%q) error = %v", tt.in, err)
			continue
		}
		if !tt.wantErr && got != tt.want {
			t.Errorf("ParseCommand(%q) = %+v, want %+v", tt.in, got, tt.want)
		}
		if !tt.wantErr && got.String() != tt.in {
			t.Errorf("%q does not round trip: %q", tt.in, got.String())
		}
	}
}

func testHello() HelloMessage {
	return HelloMessage{
		Constants: model.DefaultConstants(),
		MyID:      0,
		Players:   []PlayerStart{{ID: 0, X: 1, Y: 1}},
		Width:     2,
		Height:    2,
		Halite:    []int{10, 20, 30, 40},
	}
}

func TestEnvelopeOverPipe(t *testing.T) {
	client, server := net.Pipe()
	defer client.Close()

	conn := NewConnection(server, nil)
	conn.RegisterHandler(TypeHello, func(env Envelope) (*Envelope, error) {
		var h HelloMessage
		if err := json.Unmarshal(env.Data, &h); err != nil {
			return nil, err
		}
		ack, err := NewEnvelope(TypeAck, AckMessage{Status: "ok", Name: "bot"})
		return &ack, err
	})
	go conn.ReadLoop()

	env, err := NewEnvelope(TypeHello, testHello())
	if err != nil {
		t.Fatal(err)
	}
	if err := WriteEnvelope(client, env); err != nil {
		t.Fatalf("write: %v", err)
	}
	reply, err := ReadEnvelope(client)
	if err != nil {
		t.Fatalf("read: %v", err)
	}
	var ack AckMessage
	if err := json.Unmarshal(reply.Data, &ack); err != nil || reply.Type != TypeAck || ack.Status != "ok" {
		t.Errorf("reply = %s %s (%v)", reply.Type, reply.Data, err)
	}
}

func TestReadEnvelopeRejectsBadLength(t *testing.T) {
	if _, err := ReadEnvelope(strings.NewReader("\x00\x00\x00\x00")); err == nil {
		t.Error("zero length accepted")
	}
	if _, err := ReadEnvelope(strings.NewReader("\xff\xff\xff\x7f")); err == nil {
		t.Error("oversized length accepted")
	}
}

func TestValidate(t *testing.T) {
	bad := []struct {
		name string
		typ  string
		data string
	}{
		{"hello without map", TypeHello, `{"constants":{},"my_id":0,"players":[{"id":0,"x":0,"y":0}]}`},
		{"negative cell halite", TypeFrame, `{"turn":1,"players":[],"cells":[{"x":0,"y":0,"halite":-5}]}`},
		{"malformed command", TypeCommands, `{"turn":1,"commands":["m 1 up"]}`},
	}
	for _, tt := range bad {
		if err := Validate(Envelope{Type: tt.typ, Data: json.RawMessage(tt.data)}); err == nil {
			t.Errorf("%s: accepted", tt.name)
		}
	}

	good, _ := NewEnvelope(TypeHello, testHello())
	if err := Validate(good); err != nil {
		t.Errorf("valid hello rejected: %v", err)
	}
	if err := Validate(Envelope{Type: TypeAck, Data: json.RawMessage(`{}`)}); err != nil {
		t.Errorf("ack has no schema: %v", err)
	}
}

func TestGameMessagesRoundTrip(t *testing.T) {
	g, err := NewGame(testHello())
	if err != nil {
		t.Fatal(err)
	}
	g.Me().Halite = 700
	g.Me().Ships[3] = &model.Ship{ID: 3, Pos: model.Position{X: 0, Y: 1}, Halite: 90}
	g.AddDropoff(2, model.Position{X: 1, Y: 0})
	if err := g.Refresh(); err != nil {
		t.Fatal(err)
	}
	g.Map.At(model.Position{X: 0, Y: 0}).Halite = 5

	mirror, err := NewGame(HelloFor(g, 0))
	if err != nil {
		t.Fatal(err)
	}
	if err := ApplyFrame(mirror, FrameFor(g, []model.Position{{X: 0, Y: 0}})); err != nil {
		t.Fatal(err)
	}
	if mirror.Me().Halite != 700 || mirror.Ship(3) == nil || mirror.Ship(3).Halite != 90 {
		t.Errorf("mirror roster: bank=%d ship=%+v", mirror.Me().Halite, mirror.Ship(3))
	}
	if mirror.Me().Dropoffs[2] == nil || mirror.Map.At(model.Position{X: 0, Y: 0}).Halite != 5 {
		t.Error("mirror missing dropoff or cell update")
	}
}

func TestApplyFrameUnknownPlayer(t *testing.T) {
	g, _ := NewGame(testHello())
	if err := ApplyFrame(g, FrameMessage{Turn: 1, Players: []PlayerFrame{{ID: 9}}}); err == nil {
		t.Error("unknown player accepted")
	}
}

func TestWebsocketConnection(t *testing.T) {
	commands := make(chan CommandsMessage, 1)
	upgrader := websocket.Upgrader{}
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		ws, err := upgrader.Upgrade(w, r, nil)
		if err != nil {
			t.Errorf("upgrade: %v", err)
			return
		}
		defer ws.Close()
		env, _ := NewEnvelope(TypeFrame, FrameMessage{Turn: 4, Players: []PlayerFrame{{ID: 0, Halite: 1000}}})
		if err := ws.WriteJSON(env); err != nil {
			t.Errorf("server write: %v", err)
			return
		}
		var reply Envelope
		if err := ws.ReadJSON(&reply); err != nil {
			t.Errorf("server read: %v", err)
			return
		}
		var cm CommandsMessage
		if err := json.Unmarshal(reply.Data, &cm); err != nil {
			t.Errorf("decode commands: %v", err)
		}
		commands <- cm
	}))
	defer srv.Close()

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	conn, err := DialWS(ctx, "ws"+strings.TrimPrefix(srv.URL, "http"), nil)
	if err != nil {
		t.Fatalf("dial: %v", err)
	}
	conn.RegisterHandler(TypeFrame, func(env Envelope) (*Envelope, error) {
		var f FrameMessage
		if err := json.Unmarshal(env.Data, &f); err != nil {
			return nil, err
		}
		out, err := NewEnvelope(TypeCommands, CommandsMessage{Turn: f.Turn, Commands: EncodeCommands([]model.Command{model.Spawn()})})
		return &out, err
	})
	go conn.ReadLoop()

	select {
	case cm := <-commands:
		if cm.Turn != 4 || len(cm.Commands) != 1 || cm.Commands[0] != "g" {
			t.Errorf("commands = %+v", cm)
		}
	case <-ctx.Done():
		t.Fatal("no commands received")
	}
}
