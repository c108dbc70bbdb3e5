package ws

func (ctl *Controller) handlePing(conn *Conn) {
	ctl.sendEvent(conn, "pong", struct{}{})
}
