package relay

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/emicklei/go-restful/v3"
	"github.com/gorilla/websocket"
	"github.com/sirupsen/logrus"

	"github.com/kevmo314/go-uvc-engine/pkg/descriptors"
	"github.com/kevmo314/go-uvc-engine/pkg/formats"
	"github.com/kevmo314/go-uvc-engine/pkg/transfers"
)

// Boundary separates the parts of the multipart MJPEG feed.
const Boundary = "MJPEGBOUNDARY"

const DefaultSubscriberBuffer = 4

type Option func(*Server)

func WithLogger(log logrus.FieldLogger) Option {
	return func(s *Server) { s.log = log }
}

// WithSubscriberBuffer sets how many frames a slow client may lag behind before frames are
// dropped for it.
func WithSubscriberBuffer(n int) Option {
	return func(s *Server) {
		if n > 0 {
			s.buffer = n
		}
	}
}

// Server exposes one negotiated stream over HTTP.
type Server struct {
	bus       *Bus
	streaming *descriptors.StreamingInterface
	params    *transfers.NegotiatedStreamParameters
	log       logrus.FieldLogger
	buffer    int
	upgrader  websocket.Upgrader
	container *restful.Container
}

// NewServer describes the stream negotiated on si with params. Frames reach clients once
// Pump or Publish feeds them.
func NewServer(si *descriptors.StreamingInterface, params *transfers.NegotiatedStreamParameters, opts ...Option) *Server {
	log := logrus.New()
	log.SetOutput(io.Discard)
	s := &Server{
		bus:       NewBus(),
		streaming: si,
		params:    params,
		log:       log,
		buffer:    DefaultSubscriberBuffer,
		upgrader: websocket.Upgrader{
			CheckOrigin: func(r *http.Request) bool { return true },
		},
	}
	for _, opt := range opts {
		opt(s)
	}

	ws := new(restful.WebService)
	ws.Path("/").Produces(restful.MIME_JSON)
	ws.Route(ws.GET("/formats").To(s.formats).Doc("list the formats of the streaming interface"))
	ws.Route(ws.GET("/params").To(s.parameters).Doc("negotiated stream parameters"))
	ws.Route(ws.GET("/stats").To(s.stats).Doc("fan-out counters"))
	ws.Route(ws.GET("/stream.mjpeg").To(s.mjpeg).Doc("multipart sample feed"))

	s.container = restful.NewContainer()
	s.container.Add(ws)
	s.container.Handle("/events", http.HandlerFunc(s.events))
	return s
}

func (s *Server) Handler() http.Handler {
	return s.container
}

func (s *Server) Bus() *Bus {
	return s.bus
}

// Publish hands one sample to every connected client.
func (s *Server) Publish(sample *transfers.VideoSample) {
	s.bus.Publish(NewFrame(sample))
}

// Pump publishes the samples of stream until it ends or ctx is canceled. A clean end of
// stream and cancellation both return nil.
func (s *Server) Pump(ctx context.Context, stream *transfers.Stream) error {
	for {
		sample, err := stream.ReadSample(ctx)
		if errors.Is(err, io.EOF) || ctx.Err() != nil {
			return nil
		}
		if err != nil {
			return err
		}
		s.Publish(sample)
	}
}

// Close disconnects every client.
func (s *Server) Close() error {
	return s.bus.Close()
}

type frameInfo struct {
	Index      uint8    `json:"index"`
	Width      uint16   `json:"width"`
	Height     uint16   `json:"height"`
	Default    string   `json:"default_interval"`
	Intervals  []string `json:"intervals"`
	MaxBufSize uint32   `json:"max_buffer_size"`
}

type formatInfo struct {
	Index    uint8       `json:"index"`
	Name     string      `json:"name"`
	MIMEType string      `json:"mime_type"`
	Frames   []frameInfo `json:"frames"`
}

func (s *Server) formats(req *restful.Request, resp *restful.Response) {
	out := make([]formatInfo, 0, len(s.streaming.Formats))
	for _, vf := range s.streaming.Formats {
		fi := formatInfo{Index: vf.Index, Name: formats.Name(vf), MIMEType: formats.MIMEType(vf)}
		for _, fr := range vf.Frames {
			info := frameInfo{
				Index:      fr.Index,
				Width:      fr.Width,
				Height:     fr.Height,
				Default:    fr.DefaultFrameInterval.String(),
				MaxBufSize: fr.MaxVideoFrameBufferSize,
			}
			for _, iv := range fr.Intervals() {
				info.Intervals = append(info.Intervals, iv.String())
			}
			fi.Frames = append(fi.Frames, info)
		}
		out = append(out, fi)
	}
	if err := resp.WriteAsJson(out); err != nil {
		s.log.WithError(err).Debug("failed to write formats")
	}
}

type paramsInfo struct {
	Interface          uint8  `json:"interface"`
	AlternateSetting   uint8  `json:"alternate_setting"`
	Endpoint           uint8  `json:"endpoint"`
	FormatIndex        uint8  `json:"format_index"`
	FrameIndex         uint8  `json:"frame_index"`
	FrameInterval      string `json:"frame_interval"`
	MaxVideoFrameSize  uint32 `json:"max_video_frame_size"`
	MaxPayloadTransfer uint32 `json:"max_payload_transfer_size"`
	PacketSize         uint32 `json:"packet_size"`
	ClockFrequency     uint32 `json:"clock_frequency"`
}

func (s *Server) parameters(req *restful.Request, resp *restful.Response) {
	p := s.params
	if p == nil {
		resp.WriteErrorString(http.StatusServiceUnavailable, "stream not negotiated")
		return
	}
	if err := resp.WriteAsJson(paramsInfo{
		Interface:          p.InterfaceNumber,
		AlternateSetting:   p.AlternateSetting,
		Endpoint:           p.EndpointAddress,
		FormatIndex:        p.FormatIndex,
		FrameIndex:         p.FrameIndex,
		FrameInterval:      p.FrameInterval.String(),
		MaxVideoFrameSize:  p.MaxVideoFrameSize,
		MaxPayloadTransfer: p.MaxPayloadTransferSize,
		PacketSize:         p.PacketSize,
		ClockFrequency:     p.ClockFrequency,
	}); err != nil {
		s.log.WithError(err).Debug("failed to write params")
	}
}

func (s *Server) stats(req *restful.Request, resp *restful.Response) {
	resp.WriteAsJson(s.bus.Stats())
}

func (s *Server) mjpeg(req *restful.Request, resp *restful.Response) {
	id, frames, err := s.bus.Subscribe(s.buffer)
	if err != nil {
		resp.WriteErrorString(http.StatusServiceUnavailable, err.Error())
		return
	}
	defer s.bus.Unsubscribe(id)
	log := s.log.WithField("subscriber", id)
	log.Debug("mjpeg client connected")

	w := resp.ResponseWriter
	w.Header().Set("Content-Type", "multipart/x-mixed-replace; boundary="+Boundary)
	w.Header().Set("Cache-Control", "no-cache")
	w.WriteHeader(http.StatusOK)
	flusher, _ := w.(http.Flusher)
	if flusher != nil {
		flusher.Flush()
	}

	ctx := req.Request.Context()
	for {
		select {
		case <-ctx.Done():
			log.Debug("mjpeg client gone")
			return
		case f, ok := <-frames:
			if !ok {
				return
			}
			if f.Error || len(f.Data) == 0 {
				continue
			}
			if err := writePart(w, f); err != nil {
				log.WithError(err).Debug("mjpeg write failed")
				return
			}
			if flusher != nil {
				flusher.Flush()
			}
		}
	}
}

func writePart(w io.Writer, f Frame) error {
	if _, err := fmt.Fprintf(w, "--%s\r\nContent-Type: %s\r\nContent-Length: %d\r\nX-Timestamp: %.6f\r\n\r\n",
		Boundary, f.ContentType, len(f.Data), float64(f.Time.UnixNano())/float64(time.Second)); err != nil {
		return err
	}
	if _, err := w.Write(f.Data); err != nil {
		return err
	}
	_, err := io.WriteString(w, "\r\n")
	return err
}

// Event is the metadata sent for every frame on /events.
type Event struct {
	Sequence    uint64 `json:"sequence"`
	FrameID     bool   `json:"frame_id"`
	Size        int    `json:"size"`
	ContentType string `json:"content_type"`
	PTS         uint32 `json:"pts,omitempty"`
	Error       bool   `json:"error,omitempty"`
}

func (s *Server) events(w http.ResponseWriter, r *http.Request) {
	conn, err := s.upgrader.Upgrade(w, r, nil)
	if err != nil {
		s.log.WithError(err).Debug("failed to upgrade events connection")
		return
	}
	defer conn.Close()

	id, frames, err := s.bus.Subscribe(s.buffer)
	if err != nil {
		conn.WriteMessage(websocket.CloseMessage, websocket.FormatCloseMessage(websocket.CloseGoingAway, err.Error()))
		return
	}
	defer s.bus.Unsubscribe(id)
	log := s.log.WithField("subscriber", id)

	// the client never sends anything; reading only surfaces its close.
	gone := make(chan struct{})
	go func() {
		defer close(gone)
		for {
			if _, _, err := conn.ReadMessage(); err != nil {
				if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseNormalClosure) {
					log.WithError(err).Debug("events read error")
				}
				return
			}
		}
	}()

	for {
		select {
		case <-gone:
			return
		case f, ok := <-frames:
			if !ok {
				conn.WriteMessage(websocket.CloseMessage, websocket.FormatCloseMessage(websocket.CloseNormalClosure, ""))
				return
			}
			ev := Event{
				Sequence:    f.Sequence,
				FrameID:     f.FrameID,
				Size:        len(f.Data),
				ContentType: f.ContentType,
				Error:       f.Error,
			}
			if f.HasPTS {
				ev.PTS = f.PTS
			}
			if err := conn.WriteJSON(ev); err != nil {
				log.WithError(err).Debug("events write failed")
				return
			}
		}
	}
}
