package deriv

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"sync/atomic"
	"testing"

	"github.com/gorilla/websocket"
)

const (
	openContractJSON = `{"contract_id":123,"contract_type":"DIGITOVER","barrier":"3","currency":"USD",` +
		`"display_name":"Volatility 100 Index","underlying":"R_100","entry_tick":1234.56,"buy_price":10,` +
		`"payout":19.5,"profit":0,"status":"open","is_sold":0,"date_start":1700000000,"tick_count":5}`
	wonContractJSON = `{"contract_id":123,"contract_type":"DIGITOVER","barrier":"3","currency":"USD",` +
		`"display_name":"Volatility 100 Index","underlying":"R_100","entry_tick":1234.56,"exit_tick":1235.78,` +
		`"buy_price":10,"payout":19.5,"profit":9.5,"status":"won","is_sold":1,"date_start":1700000000,` +
		`"sell_time":1700000010,"tick_count":5}`
)

type fakeServer struct {
	t   *testing.T
	srv *httptest.Server

	pings atomic.Int32
	mu    sync.Mutex
	appID string
	seen  []string
}

func newFakeServer(t *testing.T) *fakeServer {
	fs := &fakeServer{t: t}
	fs.srv = httptest.NewServer(http.HandlerFunc(fs.handle))
	return fs
}

func (fs *fakeServer) URL() string {
	return "ws" + strings.TrimPrefix(fs.srv.URL, "http")
}

func (fs *fakeServer) Close() {
	fs.srv.Close()
}

func (fs *fakeServer) handle(w http.ResponseWriter, r *http.Request) {
	upgrader := websocket.Upgrader{}
	conn, err := upgrader.Upgrade(w, r, nil)
	if err != nil {
		fs.t.Errorf("upgrade failed: %v", err)
		return
	}
	defer func(conn *websocket.Conn) {
		_ = conn.Close()
	}(conn)

	fs.mu.Lock()
	fs.appID = r.URL.Query().Get("app_id")
	fs.mu.Unlock()

	for {
		_, data, err := conn.ReadMessage()
		if err != nil {
			return
		}

		var req map[string]any
		if err := json.Unmarshal(data, &req); err != nil {
			fs.t.Errorf("bad request %s: %v", data, err)
			return
		}
		reqID, _ := req["req_id"].(float64)

		var replies []string
		switch {
		case req["authorize"] != nil:
			fs.record("authorize")
			switch req["authorize"] {
			case "good":
				replies = append(replies, `{"msg_type":"authorize","authorize":{"loginid":"VRTC1","currency":"USD","balance":10000,"is_virtual":1}}`)
			case "silent":
			default:
				replies = append(replies, `{"msg_type":"authorize","error":{"code":"InvalidToken","message":"The token is invalid."}}`)
			}
		case req["ping"] != nil:
			fs.pings.Add(1)
			replies = append(replies, `{"msg_type":"ping","ping":"pong"}`)
		case req["proposal_open_contract"] != nil:
			fs.record("proposal_open_contract")
			sub := `"subscription":{"id":"sub-1"}`
			replies = append(replies,
				`{"msg_type":"proposal_open_contract","proposal_open_contract":`+openContractJSON+`,`+sub+`}`,
				`{"msg_type":"proposal_open_contract","proposal_open_contract":`+wonContractJSON+`,`+sub+`}`,
				`{"msg_type":"proposal_open_contract","proposal_open_contract":`+wonContractJSON+`,`+sub+`}`)
		case req["forget"] != nil:
			fs.record("forget")
			replies = append(replies, `{"msg_type":"forget","forget":1}`)
		}

		for _, reply := range replies {
			if err := conn.WriteMessage(websocket.TextMessage, withReqID(reply, reqID)); err != nil {
				return
			}
		}
	}
}

func (fs *fakeServer) record(msgType string) {
	fs.mu.Lock()
	defer fs.mu.Unlock()
	fs.seen = append(fs.seen, msgType)
}

func (fs *fakeServer) requests() []string {
	fs.mu.Lock()
	defer fs.mu.Unlock()
	return append([]string(nil), fs.seen...)
}

func withReqID(reply string, reqID float64) []byte {
	var m map[string]any
	_ = json.Unmarshal([]byte(reply), &m)
	if reqID != 0 {
		m["req_id"] = reqID
	}
	data, _ := json.Marshal(m)
	return data
}
