//    TextAnalysisWorkbench
//    Copyright: E Gunderson 2024-26
//    License: GNU GENERAL PUBLIC LICENSE 3
//        (see LICENSE in the top level directory of the distribution)

package vv

const (
	// word frequency + cloud

	CLOUDTOPWORDS  = 50
	CLOUDWIDTH     = 800
	CLOUDHEIGHT    = 400
	CLOUDMAXFONT   = 64
	CLOUDMINFONT   = 10
	CLOUDMAXWORDS  = 150
	CLOUDSPIRALSTP = 0.35

	// sentiment

	COLTRANSLABEL   = "Transformer_Sentiment"
	COLTRANSSCORE   = "Transformer_Score"
	COLVADERLABEL   = "VADER_Sentiment"
	COLVADERSCORE   = "VADER_Score"
	COLSENTIMENT    = "sentiment"
	SENTPOSITIVE    = "Positive"
	SENTNEGATIVE    = "Negative"
	SENTUNKNOWN     = "Unknown"
	SENTMAXRUNES    = 512
	SENTHTTPTIMEOUT = 20 // seconds
	SENTDEFAULTURL  = ""
	SENTWORKERS     = 4

	// topics

	COLTOPIC          = "Topic"
	COLTOPICPROB      = "Topic_Probability"
	TOPICOUTLIER      = -1
	TOPICMIN          = 2
	TOPICNATURALMULT  = 2.5
	TOPICDOCDIVISOR   = 2
	TOPICABSMAX       = 50
	TOPICOUTLIERMARG  = 0.1
	TOPICKEYWORDS     = 10
	TOPICNAMEWORDS    = 4
	TOPICINFOROWS     = 15
	TOPICCHARTTOPICS  = 10
	LDAITER           = 200
	LDAXFORMPASSES    = 50
	LDASEED           = 42
	EMBEDMONOLINGUAL  = "monolingual-en"
	EMBEDMULTILINGUAL = "multilingual"
	EMBEDDIM          = 100
	EMBEDITER         = 15
	EMBEDMINCOUNT     = 1
	EMBEDSKIPGRAM     = "skipgram"
	EMBEDCBOW         = "cbow"
	EMBEDOPTIMIZER    = "hs"
	LANGUNKNOWN       = "unknown"

	// anonymizer

	ANONNAMESURL   = "https://github.com/uashogeschoolutrecht/SEAA/raw/main/dict/names.txt"
	ANONILLNESSURL = "https://github.com/uashogeschoolutrecht/SEAA/raw/main/dict/illness.txt"
	ANONLEXICONDB  = "taw-lexicons.db" // lives in CONFIGALTAPTH
	ANONNAMELABEL  = "NAME"
	ANONILLLABEL   = "DISEASE"
	ANONILLDISCARD = "als" // a Dutch conjunction that shadows the disease
	ANONCOLPREFIX  = "Anonymized_"
	ANONENTPREFIX  = "Entities_"
	LEXNAMES       = "names"
	LEXILLNESSES   = "illnesses"
	LEXHTTPTIMEOUT = 15 // seconds
)
