package web

import (
	"encoding/json"
	"log/slog"
	"net/http"

	"github.com/gorilla/websocket"
	"github.com/guslan/vip8"
)

// SnapshotSize is the size of an encoded snapshot
const SnapshotSize = 2 + 2 + vip8.RegisterCount + 2 + 1 + vip8.StackSize*2 + 1 + 1 + 2

// EncodeSnapshot packs the registers as sent to the debugger:
// opcode, pc, V0..VF, I, sp, stack, dt, st, width, height. Words are big-endian.
func EncodeSnapshot(s vip8.Snapshot) []byte {
	buf := make([]byte, 0, SnapshotSize)

	buf = append(buf, byte((s.OpCode&0xFF00)>>8))
	buf = append(buf, byte((s.OpCode&0x00FF)>>0))

	buf = append(buf, byte((s.Pc&0xFF00)>>8))
	buf = append(buf, byte((s.Pc&0x00FF)>>0))
	buf = append(buf, s.V[:]...)
	buf = append(buf, byte((s.I&0xFF00)>>8))
	buf = append(buf, byte((s.I&0x00FF)>>0))
	buf = append(buf, s.Sp)
	for _, b := range s.Stack {
		buf = append(buf, byte((b&0xFF00)>>8))
		buf = append(buf, byte((b&0x00FF)>>0))
	}
	buf = append(buf, s.Dt)
	buf = append(buf, s.St)
	buf = append(buf, byte(vip8.ScreenWidth))
	buf = append(buf, byte(vip8.ScreenHeight))

	return buf
}

// publishSnapshot is a console.Hook
func (server *Server) publishSnapshot(m *vip8.Machine) {
	msg := EncodeSnapshot(m.Snapshot())

	server.wsMutex.Lock()
	server.broadcast(server.debuggers, msg)
	server.wsMutex.Unlock()
}

func (server *Server) handleDebugger(w http.ResponseWriter, r *http.Request) {
	conn, err := upgrader.Upgrade(w, r, nil)
	if err != nil {
		server.logger.Error("upgrade", slog.Any("error", err))
		return
	}
	defer conn.Close()

	server.logger.Info("Connecting to debugger")
	var msg []byte
	server.runner.Inspect(func(m *vip8.Machine) {
		msg = EncodeSnapshot(m.Snapshot())
	})

	server.wsMutex.Lock()
	server.debuggers[conn] = struct{}{}
	server.broadcast(map[*websocket.Conn]struct{}{conn: {}}, msg)
	server.wsMutex.Unlock()

	server.drain(conn)

	server.wsMutex.Lock()
	delete(server.debuggers, conn)
	server.wsMutex.Unlock()
	server.logger.Info("Disconnecting from debugger")
}

type stateResponse struct {
	Pc          uint16   `json:"pc"`
	OpCode      uint16   `json:"opcode"`
	Instruction string   `json:"instruction"`
	V           []int    `json:"v"`
	I           uint16   `json:"i"`
	Sp          byte     `json:"sp"`
	Stack       []uint16 `json:"stack"`
	Dt          byte     `json:"dt"`
	St          byte     `json:"st"`
	State       string   `json:"state"`
	Cycles      uint64   `json:"cycles"`
	Running     bool     `json:"running"`
	Error       string   `json:"error,omitempty"`
}

func (server *Server) handleState(w http.ResponseWriter, r *http.Request) {
	setHeaders(w)

	var resp stateResponse
	server.runner.Inspect(func(m *vip8.Machine) {
		s := m.Snapshot()
		resp = stateResponse{
			Pc:          s.Pc,
			OpCode:      s.OpCode,
			Instruction: vip8.Disassemble(s.OpCode),
			V:           make([]int, 0, len(s.V)),
			I:           s.I,
			Sp:          s.Sp,
			Stack:       append([]uint16(nil), s.Stack[:s.Sp]...),
			Dt:          s.Dt,
			St:          s.St,
			State:       s.State.String(),
			Cycles:      s.Cycles,
		}
		for _, v := range s.V {
			resp.V = append(resp.V, int(v))
		}
		if err := m.Err(); err != nil {
			resp.Error = err.Error()
		}
	})
	resp.Running = server.runner.IsRunning()

	w.Header().Set("Content-Type", "application/json")
	if err := json.NewEncoder(w).Encode(resp); err != nil {
		server.logger.Error("Error writing state", slog.Any("error", err))
	}
}
