//    TextAnalysisWorkbench
//    Copyright: E Gunderson 2024-26
//    License: GNU GENERAL PUBLIC LICENSE 3
//        (see LICENSE in the top level directory of the distribution)

package vv

import "time"

const (
	MYNAME    = "Text Analysis Workbench"
	SHORTNAME = "TAW"
	VERSION   = "0.4.2"

	BLACKANDWHITE            = false
	CONFIGALTAPTH            = "%s/.config/" // %s = os.UserHomeDir()
	CONFIGBASIC              = "taw-conf.json"
	DEFAULTECHOLOGLEVEL      = 0
	DEFAULTGOLOGLEVEL        = 0
	DEFAULTPREVIEWROWS       = 10
	JSONINDENT               = "  "
	LOGFILEMAXMB             = 20
	LOGFILEMAXBACKUPS        = 3
	LOGFILEMAXAGE            = 28 // days
	MAXECHOREQPERSECONDPERIP = 60
	MAXPREVIEWROWS           = 500
	MAXUPLOADMB              = 32
	SERVEDFROMHOST           = "127.0.0.1"
	SERVEDFROMPORT           = 8501
	SESSIONIDLETTL           = 4 * time.Hour
	SESSIONSWEEP             = 10 * time.Minute
	TIMEOUTRD                = 30 * time.Second
	TIMEOUTWR                = 600 * time.Second // topic fits on a large sheet are slow
	USEGZIP                  = false
	WRITEPERMS               = 0644
	WSPOLLINGPAUSE           = 10000000 * 10 // 10000000 * 10 = every .1s
	WSJOBWAIT                = 2 * time.Second

	// module names as they appear in the tracker and the status line

	MODWORDCLOUD = "Word Cloud"
	MODSENTIMENT = "Sentiment Analysis"
	MODTOPICS    = "Topic Modeling"
	MODANON      = "Anonymizer"

	// view modes

	VIEWCURRENT  = "current"
	VIEWORIGINAL = "original"
)
