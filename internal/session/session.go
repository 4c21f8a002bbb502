package session

import (
	"context"
	"strings"

	"github.com/rs/zerolog"

	"github.com/brightpath/voice-tutor/internal/audio"
	"github.com/brightpath/voice-tutor/internal/config"
	"github.com/brightpath/voice-tutor/internal/llm"
	"github.com/brightpath/voice-tutor/internal/observability"
	"github.com/brightpath/voice-tutor/internal/persona"
	"github.com/brightpath/voice-tutor/internal/retrieval"
	"github.com/brightpath/voice-tutor/internal/stt"
	"github.com/brightpath/voice-tutor/internal/tts"
)

// Deps are the external collaborators of one session.
type Deps struct {
	Transcriber stt.Transcriber
	Generator   llm.Generator
	Synthesizer tts.Synthesizer
	Retriever   retrieval.Searcher
	Personas    *persona.Store
}

type turnEventKind int

const (
	evGenerated turnEventKind = iota
	evAudioChunk
	evAudioComplete
	evTurnError
)

// turnEvent is a pipeline result delivered back to the owning goroutine.
// seq ties the event to the turn that produced it; events from a cancelled
// turn carry a stale seq and are dropped.
type turnEvent struct {
	seq         int
	kind        turnEventKind
	text        string
	audio       []byte
	chunkIndex  int
	totalChunks int
	err         error
}

// Session holds the state of one tutoring connection. All fields below the
// channels are owned exclusively by the Run goroutine; nothing else reads
// or writes them.
type Session struct {
	id      string
	config  *config.Config
	logger  zerolog.Logger
	metrics *observability.Metrics

	transcriber stt.Transcriber
	generator   llm.Generator
	synthesizer tts.Synthesizer
	retriever   retrieval.Searcher
	personas    *persona.Store

	inbound    chan ClientMessage
	outbound   chan ServerMessage
	events     chan turnEvent
	sttResults <-chan stt.Result

	captureBuf    *audio.RingBuffer
	captureNotify chan struct{}
	vad           *audio.VADDetector

	state     State
	course    string
	persona   persona.Persona
	voice     tts.Voice
	history   []llm.Message
	utterance strings.Builder

	turnSeq    int
	turnCancel context.CancelFunc

	ctx context.Context // session lifetime, set by Run
}

// New creates a session in the idle state.
func New(id string, cfg *config.Config, deps Deps, logger zerolog.Logger) *Session {
	vadConfig := &audio.VADConfig{
		EnergyThreshold: cfg.VADEnergyThreshold,
		SilenceFrames:   cfg.VADSilenceFrames,
		FrameSize:       cfg.SampleRate / 50, // 20ms frames
	}

	return &Session{
		id:            id,
		config:        cfg,
		logger:        logger,
		metrics:       observability.NewSessionMetrics(id),
		transcriber:   deps.Transcriber,
		generator:     deps.Generator,
		synthesizer:   deps.Synthesizer,
		retriever:     deps.Retriever,
		personas:      deps.Personas,
		inbound:       make(chan ClientMessage, 32),
		outbound:      make(chan ServerMessage, cfg.OutboundQueueSize),
		events:        make(chan turnEvent, 32),
		sttResults:    deps.Transcriber.Results(),
		captureBuf:    audio.NewRingBuffer(cfg.CaptureBufferSize),
		captureNotify: make(chan struct{}, 1),
		vad:           audio.NewVADDetector(vadConfig),
		state:         StateIdle,
	}
}

// Run is the session owner loop. It is the only goroutine that mutates
// session state; inbound frames and pipeline events are multiplexed here.
// Run returns when ctx is cancelled or the inbound channel closes.
func (s *Session) Run(ctx context.Context) {
	s.ctx = ctx
	s.metrics.RecordSessionStart()
	defer s.shutdown()

	go s.feedTranscriber(ctx)

	for {
		select {
		case <-ctx.Done():
			return

		case msg, ok := <-s.inbound:
			if !ok {
				return
			}
			s.handleClientMessage(ctx, msg)

		case result, ok := <-s.sttResults:
			if !ok {
				s.sttResults = nil
				continue
			}
			s.handleTranscription(ctx, result)

		case ev := <-s.events:
			s.handleTurnEvent(ev)
		}
	}
}

func (s *Session) shutdown() {
	s.cancelTurn()
	if err := s.transcriber.Close(); err != nil {
		s.logger.Warn().Err(err).Msg("Error closing transcriber")
	}
	if err := s.synthesizer.Close(); err != nil {
		s.logger.Warn().Err(err).Msg("Error closing synthesizer")
	}
	s.metrics.RecordSessionEnd()
	close(s.outbound)
	s.logger.Info().Msg("Session closed")
}

func (s *Session) handleClientMessage(ctx context.Context, msg ClientMessage) {
	// An error state is recoverable: the next client action returns the
	// session to listening before the action is handled.
	if s.state == StateError && msg.Type != TypeClearHistory {
		s.transition(StateListening, "")
	}

	switch msg.Type {
	case TypeStartSession:
		s.handleStartSession(ctx, msg)
	case TypeAudio:
		s.handleAudio(ctx, msg)
	case TypeText:
		s.handleText(ctx, msg)
	case TypeEndUtterance:
		s.handleEndUtterance(ctx)
	case TypeInterrupt:
		s.handleInterrupt("explicit")
	case TypeClearHistory:
		s.history = s.history[:0]
		s.logger.Debug().Msg("Conversation history cleared")
	default:
		s.logger.Warn().Str("type", msg.Type).Msg("Unknown client message type, ignoring")
	}
}

func (s *Session) handleStartSession(ctx context.Context, msg ClientMessage) {
	if s.state != StateIdle {
		s.logger.Warn().Str("state", string(s.state)).Msg("start_session ignored outside idle")
		return
	}

	s.course = msg.CourseCode
	if p, ok := s.personas.FindByID(msg.PersonaID); ok {
		s.persona = p
	} else {
		s.persona = s.personas.Default()
	}

	voiceID := msg.VoiceID
	if voiceID == "" {
		voiceID = s.persona.VoiceID
	}
	s.voice = tts.FindVoice(voiceID)

	if err := s.transcriber.Start(ctx); err != nil {
		// Audio input is degraded until the transcriber reconnects;
		// text input keeps working.
		s.logger.Error().Err(err).Msg("Failed to start transcriber")
		s.metrics.RecordError("stt_start_error", "session")
	}

	s.logger.Info().
		Str("course", s.course).
		Str("persona", s.persona.ID).
		Str("voice", s.voice.ID).
		Msg("Session started")

	s.transition(StateListening, "")
}

func (s *Session) handleAudio(ctx context.Context, msg ClientMessage) {
	pcm, err := audio.Decode(msg.Audio)
	if err != nil {
		s.logger.Warn().Err(err).Msg("Dropping malformed audio frame")
		s.metrics.RecordError("decode_error", "session")
		return
	}
	if len(pcm) == 0 {
		return
	}

	switch s.state {
	case StateListening:
		speechStarted, speechEnded, err := s.vad.ProcessPCM(pcm)
		if err != nil {
			s.logger.Warn().Err(err).Msg("Dropping audio frame rejected by VAD")
			return
		}
		if speechStarted {
			// STT latency is measured from speech onset to the final result.
			s.metrics.RecordSTTStart()
		}
		s.captureBuf.Write(pcm)
		s.notifyFeeder()
		if speechEnded {
			s.endUtterance(ctx)
		}

	case StateSpeaking:
		if !s.config.BargeInEnabled {
			return
		}
		speechStarted, _, err := s.vad.ProcessPCM(pcm)
		if err != nil {
			return
		}
		if speechStarted {
			s.logger.Info().Msg("Barge-in detected, interrupting playback")
			s.handleInterrupt("barge_in")
		}

	default:
		// Audio before start_session or during processing is dropped.
	}
}

func (s *Session) handleText(ctx context.Context, msg ClientMessage) {
	text := strings.TrimSpace(msg.Text)
	if text == "" {
		return
	}

	switch s.state {
	case StateListening:
		s.transition(StateProcessing, "")
		s.startTurn(ctx, text)

	case StateProcessing, StateSpeaking:
		// Interrupt is the designed path to reclaim control mid-turn.
		s.logger.Debug().Msg("text ignored while a turn is in flight")

	default:
		s.logger.Warn().Str("state", string(s.state)).Msg("text ignored before start_session")
	}
}

func (s *Session) handleEndUtterance(ctx context.Context) {
	if s.state != StateListening {
		s.logger.Debug().Str("state", string(s.state)).Msg("end_utterance ignored outside listening")
		return
	}
	s.endUtterance(ctx)
}

// endUtterance closes the current user utterance and, if anything was
// transcribed, starts the reply pipeline.
func (s *Session) endUtterance(ctx context.Context) {
	text := strings.TrimSpace(s.utterance.String())
	s.utterance.Reset()
	s.vad.Reset()
	s.captureBuf.Clear()

	if text == "" {
		return // nothing transcribed, keep listening
	}

	if err := s.transcriber.Finalize(); err != nil {
		s.logger.Warn().Err(&TranscriptionError{Cause: err}).Msg("Transcriber finalize failed")
	}

	s.emit(newTranscript(text, true))
	s.transition(StateProcessing, "")
	s.startTurn(ctx, text)
}

func (s *Session) handleInterrupt(source string) {
	switch s.state {
	case StateIdle:
		s.logger.Warn().Msg("interrupt ignored before start_session")
		return
	case StateProcessing, StateSpeaking:
		s.cancelTurn()
	}

	s.utterance.Reset()
	s.vad.Reset()
	s.captureBuf.Clear()
	s.metrics.RecordInterrupt(source)

	s.transition(StateInterrupted, "")
	s.transition(StateListening, "")
}

func (s *Session) handleTranscription(ctx context.Context, result stt.Result) {
	if s.state != StateListening {
		return
	}

	if result.Final {
		if s.utterance.Len() > 0 {
			s.utterance.WriteByte(' ')
		}
		s.utterance.WriteString(result.Text)
		s.metrics.RecordSTTEnd(true)
		return
	}

	s.emit(newTranscriptPartial(result.Text))
}

// startTurn launches the reply pipeline for one user input. At most one
// pipeline is in flight; starting a new one cancels the previous.
func (s *Session) startTurn(ctx context.Context, userText string) {
	s.cancelTurn()

	turnCtx, cancel := context.WithCancel(ctx)
	s.turnCancel = cancel
	seq := s.turnSeq

	// Snapshot before appending so the pipeline sees history up to but not
	// including this user input, which travels separately as UserText.
	history := make([]llm.Message, len(s.history))
	copy(history, s.history)
	if limit := s.config.HistoryLimit; limit > 0 && len(history) > limit {
		history = history[len(history)-limit:]
	}
	s.history = append(s.history, llm.Message{Role: "user", Content: userText})

	go s.runTurn(turnCtx, seq, userText, history, s.course, s.persona, s.voice)
}

func (s *Session) cancelTurn() {
	if s.turnCancel != nil {
		s.turnCancel()
		s.turnCancel = nil
	}
	s.turnSeq++
}

// runTurn is the pipeline goroutine: retrieval, generation, then synthesis
// streaming. All results flow back to the owner as events.
func (s *Session) runTurn(ctx context.Context, seq int, userText string, history []llm.Message, course string, p persona.Persona, voice tts.Voice) {
	var snippets []retrieval.Snippet
	if s.retriever != nil && course != "" {
		found, err := s.retriever.Search(ctx, course, userText, s.config.RetrievalLimit)
		if err != nil {
			// Retrieval is best effort; the tutor answers without context.
			s.logger.Warn().Err(err).Msg("Context retrieval failed")
		} else {
			snippets = found
		}
	}
	if ctx.Err() != nil {
		return
	}

	reply, err := s.generator.Generate(ctx, llm.Request{
		Persona:  p,
		Course:   course,
		Context:  snippets,
		History:  history,
		UserText: userText,
	})
	if err != nil {
		if ctx.Err() != nil {
			return // cancelled mid-call, not a failure
		}
		s.sendEvent(ctx, turnEvent{seq: seq, kind: evTurnError, err: &GenerationError{Cause: err}})
		return
	}

	s.sendEvent(ctx, turnEvent{seq: seq, kind: evGenerated, text: reply})
	s.streamSpeech(ctx, seq, reply, voice)
}

func (s *Session) handleTurnEvent(ev turnEvent) {
	if ev.seq != s.turnSeq {
		return // stale event from a cancelled turn
	}

	switch ev.kind {
	case evGenerated:
		s.history = append(s.history, llm.Message{Role: "assistant", Content: ev.text})
		s.emit(newTranscript(ev.text, false))
		s.transition(StateSpeaking, "")

	case evAudioChunk:
		s.metrics.RecordAudioBytes("out", int64(len(ev.audio)))
		s.emit(newAudioChunk(audio.Encode(ev.audio), ev.chunkIndex, ev.totalChunks))

	case evAudioComplete:
		s.emit(newAudioComplete())
		s.metrics.RecordTurnCompleted()
		s.cancelTurn()
		s.transition(StateListening, "")

	case evTurnError:
		s.logger.Error().Err(ev.err).Msg("Turn failed")
		s.metrics.RecordError("turn_error", "session")
		s.cancelTurn()
		s.transition(StateError, ev.err.Error())
	}
}

// transition changes the observable state, emitting exactly one
// state_change per change and none for a no-op.
func (s *Session) transition(to State, reason string) {
	if s.state == to {
		return
	}
	s.logger.Debug().
		Str("from", string(s.state)).
		Str("to", string(to)).
		Msg("State change")
	s.state = to
	s.emit(newStateChange(to, reason))
}

// emit queues one outbound message. A full queue blocks the owner, so a
// slow transport paces the turn instead of losing chunks or state changes;
// a dead transport cancels the session context, which releases the send.
func (s *Session) emit(msg ServerMessage) {
	select {
	case s.outbound <- msg:
	case <-s.ctx.Done():
	}
}

func (s *Session) sendEvent(ctx context.Context, ev turnEvent) {
	select {
	case s.events <- ev:
	case <-ctx.Done():
	}
}

func (s *Session) notifyFeeder() {
	select {
	case s.captureNotify <- struct{}{}:
	default:
	}
}

// feedTranscriber drains the utterance capture buffer into the transcriber.
// It runs for the session's lifetime so a slow provider never blocks the
// owner loop.
func (s *Session) feedTranscriber(ctx context.Context) {
	buf := make([]byte, 4096)
	for {
		select {
		case <-ctx.Done():
			return
		case <-s.captureNotify:
			for {
				n := s.captureBuf.Read(buf)
				if n == 0 {
					break
				}
				s.metrics.RecordAudioBytes("in", int64(n))
				if err := s.transcriber.SendAudio(buf[:n]); err != nil {
					s.logger.Warn().Err(err).Msg("Failed to forward audio to transcriber")
					s.metrics.RecordError("stt_send_error", "session")
				}
			}
		}
	}
}
