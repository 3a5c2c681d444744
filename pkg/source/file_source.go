package source

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"

	"github.com/rs/zerolog"

	"github.com/cuemby/mongoose/pkg/events"
	"github.com/cuemby/mongoose/pkg/log"
	"github.com/cuemby/mongoose/pkg/publisher"
)

// readPointerSuffix names the sibling file FileSource writes on Stop under
// the COMMITED read strategy.
const readPointerSuffix = ".readPointer"

// FileSource is a worker-driven source that tails a plain-text file,
// publishing one event per complete line. It is an illustrative
// collaborator of the dispatch core, kept only deep enough to exercise
// the read strategies end to end.
type FileSource struct {
	name     string
	path     string
	strategy ReadStrategy

	pub    *publisher.EventToQueuePublisher
	logger zerolog.Logger

	file    *os.File
	offset  int64
	drained bool // set once for ONCE_EARLIEST/ONCE_LATEST after their single read
}

// NewFileSource creates a FileSource reading path under strategy.
func NewFileSource(name, path string, strategy ReadStrategy) *FileSource {
	return &FileSource{
		name:     name,
		path:     path,
		strategy: strategy,
		logger:   log.WithSource(name),
	}
}

func (s *FileSource) SetEventToQueuePublisher(pub *publisher.EventToQueuePublisher) {
	s.pub = pub
}

func (s *FileSource) Subscribe(events.SubscriptionKey)   {}
func (s *FileSource) UnSubscribe(events.SubscriptionKey) {}

// Start opens the file and seeks to the starting offset dictated by the
// configured ReadStrategy.
func (s *FileSource) Start() error {
	f, err := os.OpenFile(s.path, os.O_RDONLY|os.O_CREATE, 0o644)
	if err != nil {
		return fmt.Errorf("file source %q: open %s: %w", s.name, s.path, err)
	}
	s.file = f

	switch s.strategy {
	case Earliest, OnceEarliest:
		s.offset = 0
	case Latest:
		s.offset = s.sizeOf(f)
	case OnceLatest:
		// Seek to EOF once and never emit appends either. Documented,
		// relied-upon behavior; do not "fix" it to tail new appends.
		s.offset = s.sizeOf(f)
		s.drained = true
	case Commited:
		s.offset = s.readCommittedPointer()
	}
	return nil
}

func (s *FileSource) sizeOf(f *os.File) int64 {
	fi, err := f.Stat()
	if err != nil {
		return 0
	}
	return fi.Size()
}

func (s *FileSource) readCommittedPointer() int64 {
	data, err := os.ReadFile(s.path + readPointerSuffix)
	if err != nil {
		return 0
	}
	off, err := strconv.ParseInt(strings.TrimSpace(string(data)), 10, 64)
	if err != nil {
		return 0
	}
	return off
}

func (s *FileSource) StartComplete() error { s.pub.MarkStartComplete(); return nil }

// Stop persists the read pointer (for COMMITED) and closes the file.
func (s *FileSource) Stop() error {
	if s.strategy == Commited {
		if err := os.WriteFile(s.path+readPointerSuffix, []byte(strconv.FormatInt(s.offset, 10)), 0o644); err != nil {
			s.logger.Warn().Err(err).Msg("failed to persist read pointer")
		}
	}
	if s.file != nil {
		return s.file.Close()
	}
	return nil
}

func (s *FileSource) TearDown() error { return nil }

// DoWork reads every complete line appended since the last cycle and
// publishes each as an event, returning the number published. ONCE_*
// strategies consume at most once across the source's lifetime.
func (s *FileSource) DoWork() int {
	if s.drained {
		return 0
	}

	lines, newOffset, err := s.readNewLines()
	if err != nil {
		s.logger.Warn().Err(err).Msg("file source read failed")
		return 0
	}
	s.offset = newOffset

	for _, line := range lines {
		s.pub.Publish(line)
	}

	if s.strategy == OnceEarliest {
		s.drained = true
	}

	return len(lines)
}

// readNewLines reads every complete ('\n'-terminated) line from the
// current offset forward, leaving any trailing partial line unconsumed
// for the next cycle.
func (s *FileSource) readNewLines() ([]string, int64, error) {
	if _, err := s.file.Seek(s.offset, io.SeekStart); err != nil {
		return nil, s.offset, err
	}

	r := bufio.NewReader(s.file)
	var lines []string
	consumed := s.offset

	for {
		line, err := r.ReadString('\n')
		if len(line) > 0 && strings.HasSuffix(line, "\n") {
			lines = append(lines, strings.TrimRight(line, "\n"))
			consumed += int64(len(line))
			continue
		}
		// Partial line (no trailing newline yet) or EOF: stop here,
		// leaving consumed at the end of the last complete line.
		if err == io.EOF {
			break
		}
		if err != nil {
			return lines, consumed, err
		}
		break
	}

	return lines, consumed, nil
}

func (s *FileSource) OnClose() {}
