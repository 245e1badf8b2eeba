package ws

import (
	"context"
	"encoding/json"
	"log"
	"net/http"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/gorilla/websocket"

	"frontier.rpg/internal/protocol"
	"frontier.rpg/internal/sim/engine"
)

type Server struct {
	engine     *engine.Engine
	adminToken string
	log        *log.Logger

	upgrader websocket.Upgrader
}

// NewServer wires the websocket endpoint to the engine. adminToken guards the
// ADMIN command surface; an empty token disables admin entirely.
func NewServer(e *engine.Engine, adminToken string, logger *log.Logger) *Server {
	return &Server{
		engine:     e,
		adminToken: adminToken,
		log:        logger,
		upgrader: websocket.Upgrader{
			ReadBufferSize:  16 * 1024,
			WriteBufferSize: 16 * 1024,
			CheckOrigin:     func(r *http.Request) bool { return true }, // dev default
		},
	}
}

func (s *Server) Handler() http.HandlerFunc {
	return func(rw http.ResponseWriter, r *http.Request) {
		conn, err := s.upgrader.Upgrade(rw, r, nil)
		if err != nil {
			return
		}
		defer conn.Close()

		participantID, out := s.handshake(conn)
		if participantID == "" {
			return
		}

		ctx, cancel := context.WithCancel(context.Background())
		defer cancel()

		// Writer goroutine.
		go func() {
			for {
				select {
				case <-ctx.Done():
					return
				case b, ok := <-out:
					if !ok {
						return
					}
					_ = conn.SetWriteDeadline(time.Now().Add(5 * time.Second))
					if err := conn.WriteMessage(websocket.TextMessage, b); err != nil {
						cancel()
						return
					}
				}
			}
		}()

		// Reader loop.
		for {
			_ = conn.SetReadDeadline(time.Now().Add(60 * time.Second))
			_, msg, err := conn.ReadMessage()
			if err != nil {
				cancel()
				break
			}
			base, err := protocol.DecodeBase(msg)
			if err != nil {
				continue
			}
			if base.ProtocolVersion != protocol.Version {
				continue
			}
			switch base.Type {
			case protocol.TypeEvent:
				var ev protocol.EventMsg
				if err := json.Unmarshal(msg, &ev); err != nil {
					continue
				}
				s.engine.Events() <- engine.EventEnvelope{ParticipantID: participantID, Ev: ev}
			case protocol.TypeUpgrade:
				var up protocol.UpgradeMsg
				if err := json.Unmarshal(msg, &up); err != nil {
					continue
				}
				s.engine.Upgrades() <- engine.UpgradeEnvelope{ParticipantID: participantID, SkillIndex: up.SkillIndex}
			case protocol.TypeCmd:
				var cmd protocol.CmdMsg
				if err := json.Unmarshal(msg, &cmd); err != nil {
					continue
				}
				s.engine.Cmds() <- engine.CmdEnvelope{ParticipantID: participantID, Cmd: cmd}
			}
		}

		// Cleanup.
		s.engine.Leave() <- participantID
	}
}

func (s *Server) handshake(conn *websocket.Conn) (participantID string, out chan []byte) {
	_ = conn.SetReadDeadline(time.Now().Add(5 * time.Second))
	_, msg, err := conn.ReadMessage()
	if err != nil {
		return "", nil
	}

	base, err := protocol.DecodeBase(msg)
	if err != nil || base.Type != protocol.TypeHello {
		_ = conn.WriteControl(websocket.CloseMessage, websocket.FormatCloseMessage(websocket.ClosePolicyViolation, "expected HELLO"), time.Now().Add(time.Second))
		return "", nil
	}

	var hello protocol.HelloMsg
	if err := json.Unmarshal(msg, &hello); err != nil {
		return "", nil
	}
	if hello.ProtocolVersion != protocol.Version {
		_ = conn.WriteControl(websocket.CloseMessage, websocket.FormatCloseMessage(websocket.ClosePolicyViolation, "bad protocol_version"), time.Now().Add(time.Second))
		return "", nil
	}
	if hello.Name == "" {
		hello.Name = "participant"
	}

	// Returning participants present their id to resume their record; first
	// timers get a fresh one.
	id := strings.TrimSpace(hello.ParticipantID)
	if id == "" {
		id = uuid.NewString()
	}

	admin := false
	if s.adminToken != "" && hello.Auth != nil {
		admin = hello.Auth.Token == s.adminToken
	}

	maxQ := hello.Capabilities.MaxQueue
	if maxQ <= 0 {
		maxQ = 8
	}
	if maxQ > 64 {
		maxQ = 64
	}
	out = make(chan []byte, maxQ)

	respCh := make(chan engine.JoinResponse, 1)
	s.engine.Join() <- engine.JoinRequest{
		ParticipantID: id,
		Name:          hello.Name,
		Admin:         admin,
		Out:           out,
		Resp:          respCh,
	}
	resp := <-respCh

	if err := writeJSON(conn, resp.Welcome); err != nil {
		return "", nil
	}
	return resp.Welcome.ParticipantID, out
}

func writeJSON(conn *websocket.Conn, v any) error {
	b, err := json.Marshal(v)
	if err != nil {
		return err
	}
	_ = conn.SetWriteDeadline(time.Now().Add(5 * time.Second))
	return conn.WriteMessage(websocket.TextMessage, b)
}
