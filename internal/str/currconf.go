//    TextAnalysisWorkbench
//    Copyright: E Gunderson 2024-26
//    License: GNU GENERAL PUBLIC LICENSE 3
//        (see LICENSE in the top level directory of the distribution)

package str

type CurrentConfiguration struct {
	BlackAndWhite bool
	CloudHeight   int
	CloudWidth    int
	EchoLog       int // 0: "none", 1: "terse", 2: "prolix", 3: "prolix+remoteip"
	EmbedIter     int // 0: no document embeddings
	Gzip          bool
	HostIP        string
	HostPort      int
	IllnessURL    string
	LdaIterations int
	LexiconDB     string
	LogFile       string // empty: console only
	LogLevel      int
	MaxUploadMB   int
	NamesURL      string
	ProfileCPU    bool
	ProfileMEM    bool
	QuietStart    bool
	SentimentKey  string
	SentimentURL  string // empty: lexicon scorer only
	SessionTTL    int    // minutes
	TopicSeed     int
	WorkerCount   int
}
