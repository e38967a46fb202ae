//    TextAnalysisWorkbench
//    Copyright: E Gunderson 2024-26
//    License: GNU GENERAL PUBLIC LICENSE 3
//        (see LICENSE in the top level directory of the distribution)

package lnch

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"runtime"
	"strconv"
	"text/template"

	"github.com/e-gun/TextAnalysisWorkbench/internal/mm"
	"github.com/e-gun/TextAnalysisWorkbench/internal/str"
	"github.com/e-gun/TextAnalysisWorkbench/internal/vv"
)

var (
	Config = BuildDefaultConfig()
	Msg    = mm.NewMessageMaker(vv.MYNAME, vv.SHORTNAME, vv.VERSION)
)

// ErrHelpOrVersion - the command line asked for information and not for a server
var ErrHelpOrVersion = errors.New("help or version requested")

// BuildDefaultConfig - the built-in values
func BuildDefaultConfig() *str.CurrentConfiguration {
	var c str.CurrentConfiguration
	c.BlackAndWhite = vv.BLACKANDWHITE
	c.CloudHeight = vv.CLOUDHEIGHT
	c.CloudWidth = vv.CLOUDWIDTH
	c.EchoLog = vv.DEFAULTECHOLOGLEVEL
	c.EmbedIter = vv.EMBEDITER
	c.Gzip = vv.USEGZIP
	c.HostIP = vv.SERVEDFROMHOST
	c.HostPort = vv.SERVEDFROMPORT
	c.IllnessURL = vv.ANONILLNESSURL
	c.LdaIterations = vv.LDAITER
	c.LogLevel = vv.DEFAULTGOLOGLEVEL
	c.MaxUploadMB = vv.MAXUPLOADMB
	c.NamesURL = vv.ANONNAMESURL
	c.SentimentURL = vv.SENTDEFAULTURL
	c.SessionTTL = int(vv.SESSIONIDLETTL.Minutes())
	c.TopicSeed = vv.LDASEED
	c.WorkerCount = runtime.NumCPU()

	if h, err := os.UserHomeDir(); err == nil {
		c.LexiconDB = filepath.Join(fmt.Sprintf(vv.CONFIGALTAPTH, h), vv.ANONLEXICONDB)
	} else {
		c.LexiconDB = vv.ANONLEXICONDB
	}
	return &c
}

// ConfigAtLaunch - read the configuration values from JSON and/or command line
func ConfigAtLaunch() {
	uh, _ := os.UserHomeDir()
	cfgfile := filepath.Join(fmt.Sprintf(vv.CONFIGALTAPTH, uh), vv.CONFIGBASIC)

	c := BuildDefaultConfig()
	if err := LoadConfigFile(c, cfgfile); err != nil && !errors.Is(err, os.ErrNotExist) {
		Msg.CRIT(fmt.Sprintf("Could not parse the information in '%s'. Skipping and using built-in defaults instead.", cfgfile))
	}

	err := ParseArgs(c, os.Args[1:])
	if errors.Is(err, ErrHelpOrVersion) {
		os.Exit(0)
	}
	Msg.EF(err, "ConfigAtLaunch()")

	Config = c
	Msg.UpdateMessageMaker(c.LogLevel, c.BlackAndWhite, c.LogFile, vv.LOGFILEMAXMB, vv.LOGFILEMAXBACKUPS, vv.LOGFILEMAXAGE)
}

// LoadConfigFile - overlay the JSON values in fn on top of c; absent keys keep their current values
func LoadConfigFile(c *str.CurrentConfiguration, fn string) error {
	loadedcfg, err := os.Open(fn)
	if err != nil {
		return err
	}
	defer loadedcfg.Close()

	overlay := *c
	if err = json.NewDecoder(loadedcfg).Decode(&overlay); err != nil {
		return fmt.Errorf("%s: %w", fn, err)
	}
	*c = overlay
	return nil
}

// ParseArgs - hand-rolled flag parsing in the style of the rest of the launch code
func ParseArgs(c *str.CurrentConfiguration, args []string) error {
	const (
		FAIL1 = "Refusing to set a workercount greater than NumCPU: %d > %d ---> setting workercount value to NumCPU: %d"
		FAIL2 = "'%s' requires a value"
		FAIL3 = "'%s' requires a number: %w"
	)

	next := func(i int) (string, error) {
		if i+1 >= len(args) {
			return "", fmt.Errorf(FAIL2, args[i])
		}
		return args[i+1], nil
	}

	nextint := func(i int) (int, error) {
		s, err := next(i)
		if err != nil {
			return 0, err
		}
		n, err := strconv.Atoi(s)
		if err != nil {
			return 0, fmt.Errorf(FAIL3, args[i], err)
		}
		return n, nil
	}

	var err error
	for i, a := range args {
		switch a {
		case "-vv":
			PrintVersion(*c)
			PrintBuildInfo(*c)
			return ErrHelpOrVersion
		case "-v":
			fmt.Println(vv.VERSION + VersSuppl)
			return ErrHelpOrVersion
		case "-h":
			fmt.Println(HelpText(*c))
			return ErrHelpOrVersion
		case "-bw":
			c.BlackAndWhite = true
		case "-ei":
			c.EmbedIter, err = nextint(i)
		case "-el":
			c.EchoLog, err = nextint(i)
		case "-gl":
			c.LogLevel, err = nextint(i)
		case "-gz":
			c.Gzip = true
		case "-ip":
			c.HostIP, err = next(i)
		case "-iu":
			c.IllnessURL, err = next(i)
		case "-lc":
			c.LexiconDB, err = next(i)
		case "-lf":
			c.LogFile, err = next(i)
		case "-li":
			c.LdaIterations, err = nextint(i)
		case "-mu":
			c.MaxUploadMB, err = nextint(i)
		case "-nu":
			c.NamesURL, err = next(i)
		case "-pc":
			c.ProfileCPU = true
		case "-pm":
			c.ProfileMEM = true
		case "-pt":
			c.HostPort, err = nextint(i)
		case "-q":
			c.QuietStart = true
		case "-sk":
			c.SentimentKey, err = next(i)
		case "-st":
			c.SessionTTL, err = nextint(i)
		case "-su":
			c.SentimentURL, err = next(i)
		case "-ts":
			c.TopicSeed, err = nextint(i)
		case "-wc":
			c.WorkerCount, err = nextint(i)
			if err == nil && c.WorkerCount > runtime.NumCPU() {
				Msg.CRIT(fmt.Sprintf(FAIL1, c.WorkerCount, runtime.NumCPU(), runtime.NumCPU()))
				c.WorkerCount = runtime.NumCPU()
			}
		default:
			// values that follow a flag land here
		}
		if err != nil {
			return err
		}
	}

	if c.WorkerCount < 1 {
		c.WorkerCount = 1
	}
	if c.LdaIterations < 1 {
		c.LdaIterations = vv.LDAITER
	}
	if c.EmbedIter < 0 {
		c.EmbedIter = 0
	}
	return nil
}

// HelpText - the colorized help text filled with the current values
func HelpText(c str.CurrentConfiguration) string {
	h, _ := os.UserHomeDir()
	m := map[string]interface{}{
		"conffile": vv.CONFIGBASIC,
		"echoll":   c.EchoLog,
		"embiter":  c.EmbedIter,
		"home":     fmt.Sprintf(vv.CONFIGALTAPTH, h),
		"host":     c.HostIP,
		"illurl":   c.IllnessURL,
		"ldaiter":  c.LdaIterations,
		"lexdb":    c.LexiconDB,
		"logfile":  c.LogFile,
		"maxup":    c.MaxUploadMB,
		"nameurl":  c.NamesURL,
		"port":     c.HostPort,
		"projurl":  vv.PROJURL,
		"seed":     c.TopicSeed,
		"senturl":  c.SentimentURL,
		"tawll":    c.LogLevel,
		"ttl":      c.SessionTTL,
		"workers":  c.WorkerCount,
	}

	t := template.Must(template.New("").Parse(vv.HELPTEXTTEMPLATE))

	var b bytes.Buffer
	if err := t.Execute(&b, m); err != nil {
		Msg.CRIT("HelpText() failed to execute help text template")
	}
	return Msg.ColStyle(b.String())
}
