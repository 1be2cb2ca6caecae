package wsmodels

type ServerMessage struct {
	ToUserID string `json:"-"`
	Time     string `json:"time"`                // RFC3339 event time
	Code     string `json:"code"`                // event code
	EntityID string `json:"entity_id,omitempty"` // match, contract, payment...
	Msg      string `json:"msg"`                 // event payload or text
}
