package web

import (
	"encoding/json"
	"log"
	"net/http"
	"time"

	diffdrive "github.com/milosgajdos/go-diffdrive"
)

// Frame is one trajectory record on the wire.
type Frame struct {
	Estimator string     `json:"estimator"`
	Step      int        `json:"step"`
	Truth     [3]float64 `json:"truth"`
	Est       [3]float64 `json:"est"`
	Cov       [9]float64 `json:"cov"`
}

// Server streams trajectory records to websocket viewers.
type Server struct {
	Hub *Hub
}

// NewServer creates a new streaming server with an idle hub.
func NewServer() *Server {
	return &Server{Hub: NewHub()}
}

// Handler returns the HTTP handler serving the websocket endpoint on /ws.
func (s *Server) Handler() http.Handler {
	mux := http.NewServeMux()
	mux.HandleFunc("/ws", func(w http.ResponseWriter, r *http.Request) {
		serveWs(s.Hub, w, r)
	})

	return mux
}

// Start runs the hub and serves the websocket endpoint on addr. It blocks.
func (s *Server) Start(addr string) error {
	go s.Hub.Run()

	log.Printf("trajectory stream listening on %s", addr)

	return http.ListenAndServe(addr, s.Handler())
}

// Replay streams a finished run's records to the connected viewers, one
// frame per interval.
func (s *Server) Replay(estimator string, recs []diffdrive.Record, interval time.Duration) error {
	for i, r := range recs {
		f := Frame{
			Estimator: estimator,
			Step:      i,
			Truth:     [3]float64{r.Truth.X, r.Truth.Y, r.Truth.Theta},
			Est:       [3]float64{r.Est.X, r.Est.Y, r.Est.Theta},
		}
		for row := 0; row < 3; row++ {
			for col := 0; col < 3; col++ {
				f.Cov[row*3+col] = r.Cov.At(row, col)
			}
		}

		msg, err := json.Marshal(f)
		if err != nil {
			return err
		}
		s.Hub.Broadcast(msg)

		if interval > 0 {
			time.Sleep(interval)
		}
	}

	return nil
}
