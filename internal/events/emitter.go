package events

import (
	"encoding/json"
	"fmt"
	"time"

	"github.com/nats-io/nats.go"

	"github.com/drawlab/lottogen/internal/lottery"
)

// PickEvent is the message published for every accepted combination.
type PickEvent struct {
	Game      string       `json:"game"`
	Pick      lottery.Pick `json:"pick"`
	Timestamp int64        `json:"timestamp"`
}

// Emitter publishes accepted picks over NATS so other tooling (or the watch
// subcommand) can tail them.
type Emitter struct {
	conn          *nats.Conn
	subjectPrefix string
}

func NewEmitter(natsURL, subjectPrefix string) (*Emitter, error) {
	conn, err := nats.Connect(natsURL)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to NATS: %w", err)
	}
	return &Emitter{
		conn:          conn,
		subjectPrefix: subjectPrefix,
	}, nil
}

// PickSubject is where pick events land for a given prefix.
func PickSubject(prefix string) string {
	return prefix + ".pick"
}

func (e *Emitter) EmitPick(game string, pick lottery.Pick) error {
	data, err := json.Marshal(PickEvent{
		Game:      game,
		Pick:      pick,
		Timestamp: time.Now().Unix(),
	})
	if err != nil {
		return err
	}
	return e.conn.Publish(PickSubject(e.subjectPrefix), data)
}

func (e *Emitter) Close() {
	if e.conn != nil {
		e.conn.Close()
	}
}
