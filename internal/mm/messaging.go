//    TextAnalysisWorkbench
//    Copyright: E Gunderson 2024-26
//    License: GNU GENERAL PUBLIC LICENSE 3
//        (see LICENSE in the top level directory of the distribution)

package mm

import (
	"fmt"
	"os"
	"runtime"
	"strings"
	"sync"
	"time"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"gopkg.in/natefinch/lumberjack.v2"
)

//
// TERMINAL OUTPUT/MESSAGES
//

const (
	MSGMAND              = -1
	MSGCRIT              = 0
	MSGWARN              = 1
	MSGNOTE              = 2
	MSGFYI               = 3
	MSGPEEK              = 4
	MSGTMI               = 5
	TIMETRACKERMSGTHRESH = MSGFYI
	RESET                = "\033[0m"
	BLUE1                = "\033[38;5;38m"  // DeepSkyBlue2
	BLUE2                = "\033[38;5;68m"  // SteelBlue3
	CYAN2                = "\033[38;5;117m" // SkyBlue1
	GREEN                = "\033[38;5;70m"  // Chartreuse3
	RED1                 = "\033[38;5;160m" // Red3
	YELLOW1              = "\033[38;5;178m" // Gold3
	YELLOW2              = "\033[38;5;143m" // DarkKhaki
	GREY3                = "\033[38;5;242m" // Grey42
	WHITE                = "\033[38;5;255m" // Grey93
	BLINK                = "\033[30;0;5m"
	PANIC                = "[%s%s v.%s%s] (%s%s%s) %sUNRECOVERABLE ERROR%s"
	FAILED               = "%s failed: %s"
)

// MessageMaker - leveled console messages; everything passes through zap so that a log file can tee the output
type MessageMaker struct {
	Lnc  time.Time
	BW   bool
	Clr  string
	LLvl int
	LNm  string
	SNm  string
	Ver  string
	Win  bool
	con  *zap.Logger
	file *zap.Logger
	mtx  sync.RWMutex
}

// NewMessageMaker - a console-only MessageMaker; see UpdateMessageMaker for the log file
func NewMessageMaker(longname, shortname, version string) *MessageMaker {
	return &MessageMaker{
		Lnc:  time.Now(),
		LNm:  longname,
		SNm:  shortname,
		Ver:  version,
		Win:  runtime.GOOS == "windows",
		con:  zap.New(consolecore(zapcore.Lock(os.Stdout))),
		file: zap.NewNop(),
	}
}

// NewMessageMakerWithCore - used by tests to capture what would have gone to the console
func NewMessageMakerWithCore(core zapcore.Core, lvl int) *MessageMaker {
	m := NewMessageMaker("test", "TST", "0")
	m.con = zap.New(core)
	m.LLvl = lvl
	m.BW = true
	return m
}

// consolecore - the message is the whole line: no timestamps, no levels
func consolecore(ws zapcore.WriteSyncer) zapcore.Core {
	enc := zapcore.NewConsoleEncoder(zapcore.EncoderConfig{
		MessageKey: "msg",
		LineEnding: zapcore.DefaultLineEnding,
	})
	return zapcore.NewCore(enc, ws, zap.DebugLevel)
}

// UpdateMessageMaker - apply config values; a non-empty logfile gets a rotating JSON copy of every emitted message
func (m *MessageMaker) UpdateMessageMaker(lvl int, bw bool, logfile string, maxmb, backups, age int) {
	m.mtx.Lock()
	defer m.mtx.Unlock()
	m.LLvl = lvl
	m.BW = bw
	if logfile == "" {
		return
	}
	rot := &lumberjack.Logger{
		Filename:   logfile,
		MaxSize:    maxmb,
		MaxBackups: backups,
		MaxAge:     age,
		Compress:   true,
	}
	core := zapcore.NewCore(zapcore.NewJSONEncoder(zap.NewProductionEncoderConfig()), zapcore.AddSync(rot), zap.DebugLevel)
	m.file = zap.New(core).With(zap.String("app", m.SNm))
}

// Caller - a copy of the MessageMaker that reports errors as coming from c
func (m *MessageMaker) Caller(c string) *MessageMaker {
	m.mtx.RLock()
	defer m.mtx.RUnlock()
	return &MessageMaker{
		Lnc:  m.Lnc,
		BW:   m.BW,
		Clr:  c,
		LLvl: m.LLvl,
		LNm:  m.LNm,
		SNm:  m.SNm,
		Ver:  m.Ver,
		Win:  m.Win,
		con:  m.con,
		file: m.file,
	}
}

// Emit - send a message to the terminal, perhaps adding color and style to it
func (m *MessageMaker) Emit(message string, threshold int) {
	// sample output: "[TAW] Topic Modeling: 212 documents after filtering"
	m.mtx.RLock()
	defer m.mtx.RUnlock()

	if m.LLvl < threshold {
		return
	}

	m.file.Check(zaplevel(threshold), message).Write(zap.Int("threshold", threshold))

	if !m.Win && !m.BW {
		var color string

		switch threshold {
		case MSGMAND:
			color = GREEN
		case MSGCRIT:
			color = RED1
		case MSGWARN:
			color = YELLOW2
		case MSGNOTE:
			color = YELLOW1
		case MSGFYI:
			color = CYAN2
		case MSGPEEK:
			color = BLUE2
		case MSGTMI:
			color = GREY3
		default:
			color = WHITE
		}
		m.con.Info(fmt.Sprintf("[%s%s%s] %s%s%s", YELLOW1, m.SNm, RESET, color, message, RESET))
	} else {
		// terminal color codes not w's friend
		m.con.Info(fmt.Sprintf("[%s] %s", m.SNm, message))
	}
}

func zaplevel(threshold int) zapcore.Level {
	switch threshold {
	case MSGCRIT:
		return zap.ErrorLevel
	case MSGWARN:
		return zap.WarnLevel
	case MSGPEEK, MSGTMI:
		return zap.DebugLevel
	default:
		return zap.InfoLevel
	}
}

func (m *MessageMaker) MAND(s string) { m.Emit(s, MSGMAND) }
func (m *MessageMaker) CRIT(s string) { m.Emit(s, MSGCRIT) }
func (m *MessageMaker) WARN(s string) { m.Emit(s, MSGWARN) }
func (m *MessageMaker) NOTE(s string) { m.Emit(s, MSGNOTE) }
func (m *MessageMaker) FYI(s string)  { m.Emit(s, MSGFYI) }
func (m *MessageMaker) PEEK(s string) { m.Emit(s, MSGPEEK) }
func (m *MessageMaker) TMI(s string)  { m.Emit(s, MSGTMI) }

// Color - color text with ANSI codes by swapping out pseudo-tags
func (m *MessageMaker) Color(tagged string) string {
	// "[git: C4%sC0]" ==> green text for the %s
	swap := strings.NewReplacer("C1", "", "C2", "", "C3", "", "C4", "", "C5", "", "C6", "", "C7", "", "C0", "")

	if !m.Win && !m.BW {
		swap = strings.NewReplacer("C1", YELLOW1, "C2", CYAN2, "C3", BLUE1, "C4", GREEN, "C5", RED1,
			"C6", GREY3, "C7", BLINK, "C0", RESET)
	}
	tagged = swap.Replace(tagged)
	return tagged
}

// Styled - style text with ANSI codes by swapping out pseudo-tags
func (m *MessageMaker) Styled(tagged string) string {
	const (
		BOLD    = "\033[1m"
		ITAL    = "\033[3m"
		UNDER   = "\033[4m"
		REVERSE = "\033[7m"
		STRIKE  = "\033[9m"
	)
	swap := strings.NewReplacer("S1", "", "S2", "", "S3", "", "S4", "", "S5", "", "S0", "")

	if !m.Win && !m.BW {
		swap = strings.NewReplacer("S1", BOLD, "S2", ITAL, "S3", UNDER, "S4", STRIKE, "S5", REVERSE,
			"S0", RESET)
	}
	tagged = swap.Replace(tagged)
	return tagged
}

func (m *MessageMaker) ColStyle(tagged string) string {
	return m.Styled(m.Color(tagged))
}

// EC - report an error and the caller; the server keeps running
func (m *MessageMaker) EC(err error) {
	if err == nil {
		return
	}
	c := m.Clr
	if c == "" {
		c = "?"
	}
	m.Emit(fmt.Sprintf(FAILED, c, err.Error()), MSGCRIT)
}

// EF - report error and function, then exit; only for launch-time failures
func (m *MessageMaker) EF(err error, fn string) {
	if err == nil {
		return
	}
	fmt.Println(m.Color(fmt.Sprintf(PANIC, YELLOW2, m.LNm, m.Ver, RESET, CYAN2, fn, RESET, RED1, RESET)))
	fmt.Println(err)
	m.Sync()
	m.ExitOrHang(1)
}

// ExitOrHang - Windows should hang to keep the error visible before the window closes and hides it
func (m *MessageMaker) ExitOrHang(e int) {
	const (
		HANG = `Execution suspended. %s is now frozen. Note any errors above. Execution will halt after %d seconds.`
		SUSP = 60
	)
	if m.Win {
		m.Emit(fmt.Sprintf(HANG, m.LNm, SUSP), MSGMAND)
		time.Sleep(SUSP * time.Second)
	}
	os.Exit(e)
}

// Timer - report how much time elapsed between A and B
func (m *MessageMaker) Timer(letter string, o string, start time.Time, previous time.Time) {
	// sample output: "[B2: 3.764s][Δ: 1.024s] anonymizer lexicons loaded"
	d := fmt.Sprintf("[Δ: %.3fs] ", time.Since(previous).Seconds())
	o = fmt.Sprintf("[%s: %.3fs]", letter, time.Since(start).Seconds()) + d + o
	m.Emit(o, TIMETRACKERMSGTHRESH)
}

// LogPaths - increment path counter for this path and report the heap
func (m *MessageMaker) LogPaths(fn string) {
	// sample output: "[TAW] RtTopics() current heap: 340M"
	const (
		HEAP = "%s current heap: %s"
	)

	select {
	case PIUpdate <- fn:
	default:
		// hub is busy or not running: dropping a count is harmless
	}

	var mem runtime.MemStats
	runtime.ReadMemStats(&mem)
	m.Emit(fmt.Sprintf(HEAP, fn, fmt.Sprintf("%dM", mem.HeapAlloc/1024/1024)), MSGPEEK)
}

// Sync - flush the zap cores
func (m *MessageMaker) Sync() {
	_ = m.con.Sync()
	_ = m.file.Sync()
}

//
// CHANNEL-BASED PATHINFO REPORTING TO COMMUNICATE STATS BETWEEN ROUTINES
//

// PIReply - PathInfoHub helper struct for returning the PathInfo
type PIReply struct {
	Response chan map[string]int
}

var (
	PIUpdate  = make(chan string, 2*runtime.NumCPU())
	PIRequest = make(chan PIReply)
)

// PathInfoHub - log paths that pass through MessageMaker.LogPaths; note that we are assuming only one mm is logging
func PathInfoHub() {
	var (
		PathsCalled = make(map[string]int)
	)

	// the main loop; it will never exit
	for {
		select {
		case upd := <-PIUpdate:
			PathsCalled[upd]++
		case req := <-PIRequest:
			cp := make(map[string]int, len(PathsCalled))
			for k, v := range PathsCalled {
				cp[k] = v
			}
			req.Response <- cp
		}
	}
}

// PathCounts - ask the PathInfoHub for its counts
func PathCounts() map[string]int {
	responder := PIReply{Response: make(chan map[string]int)}
	PIRequest <- responder
	return <-responder.Response
}
