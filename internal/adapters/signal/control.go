package signal

import "github.com/dkeye/Talkspace/internal/domain"

func (ctl *SignalWSController) handlePing(
	conn *WsSignalConn,
) {
	resp := struct {
		Type domain.Event `json:"type"`
	}{
		Type: domain.ActionPong,
	}
	ctl.sendJSON(conn, resp)
}
