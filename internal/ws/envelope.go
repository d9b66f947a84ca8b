package ws

// Msg is the wire envelope every ingress and egress message uses, kept
// identical in shape to the teacher's card-game envelope: a short type tag
// plus an untyped payload map, decoded with encoding/json.
type Msg struct {
	T string                 `json:"t"`
	M map[string]interface{} `json:"m,omitempty"`
}

// Ingress message types accepted from a session, per §4.8.
const (
	msgJoinAsHuman = "join_as_human"
	msgJoinVsBot   = "join_vs_bot"
	msgGameAction  = "game_action"
	msgForfeit     = "forfeit"
)

// Egress message types sent to sessions.
const (
	msgState = "state"
	msgError = "error"
)

func stringField(m map[string]interface{}, key string) string {
	v, _ := m[key].(string)
	return v
}

func mapField(m map[string]interface{}, key string) map[string]interface{} {
	v, _ := m[key].(map[string]interface{})
	return v
}

func numberField(m map[string]interface{}, key string) (int, bool) {
	v, ok := m[key].(float64)
	if !ok {
		return 0, false
	}
	return int(v), true
}
