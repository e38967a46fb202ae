//    TextAnalysisWorkbench
//    Copyright: E Gunderson 2024-26
//    License: GNU GENERAL PUBLIC LICENSE 3
//        (see LICENSE in the top level directory of the distribution)

package vv

const (
	TERMINALTEXT = `Copyright (C) %s / %s
      %s

      This program comes with ABSOLUTELY NO WARRANTY; without even the
      implied warranty of MERCHANTABILITY or FITNESS FOR A PARTICULAR PURPOSE.

      This is free software, and you are welcome to redistribute it and/or
      modify it under the terms of the GNU General Public License version 3.`

	PROJYEAR = "2024-26"
	PROJAUTH = "E. Gunderson"
	PROJURL  = "https://github.com/e-gun/TextAnalysisWorkbench"

	HELPTEXTTEMPLATE = `S3command line optionsS0:
   C1-bwC0          disable color output in the console
   C1-eiC0 C2{num}C0    word2vec iterations for topic embeddings (C10C0 to skip) [C6currentC0: C3{{.embiter}}C0]
   C1-elC0 C2{num}C0    set echo server log level (C10-3C0) [C6currentC0: C3{{.echoll}}C0]
   C1-glC0 C2{num}C0    set golang log level (C1-1-5C0) [C6currentC0: C3{{.tawll}}C0]
   C1-gzC0          use gzip compression in the web server
   C1-hC0           print this message and exit
   C1-iuC0 C2{url}C0    illness lexicon for the anonymizer [C6currentC0: C3{{.illurl}}C0]
   C1-ipC0 C2{ip}C0     serve from this IP address [C6currentC0: C3{{.host}}C0]
   C1-lcC0 C2{file}C0   lexicon cache database [C6currentC0: C3{{.lexdb}}C0]
   C1-lfC0 C2{file}C0   also log to this (rotating) file [C6currentC0: C3{{.logfile}}C0]
   C1-liC0 C2{num}C0    LDA iterations per topic fit [C6currentC0: C3{{.ldaiter}}C0]
   C1-muC0 C2{num}C0    maximum upload size in MB [C6currentC0: C3{{.maxup}}C0]
   C1-nuC0 C2{url}C0    name lexicon for the anonymizer [C6currentC0: C3{{.nameurl}}C0]
   C1-pcC0          profile CPU use (debugging)
   C1-pmC0          profile memory use (debugging)
   C1-ptC0 C2{num}C0    serve from this port [C6currentC0: C3{{.port}}C0]
   C1-qC0           quiet start: skip the copyright notice
   C1-skC0 C2{key}C0    bearer token for the sentiment inference endpoint
   C1-stC0 C2{num}C0    minutes before an idle session is dropped [C6currentC0: C3{{.ttl}}C0]
   C1-suC0 C2{url}C0    transformer sentiment inference endpoint [C6currentC0: C3{{.senturl}}C0]
                   without one only the lexicon (VADER) scorer runs
   C1-tsC0 C2{num}C0    random seed for topic fits [C6currentC0: C3{{.seed}}C0]
   C1-vC0           print version and exit
   C1-vvC0          print version and build info and exit
   C1-wcC0 C2{num}C0    number of workers for row scoring [C6currentC0: C3{{.workers}}C0]

   values are read from "C3{{.conffile}}C0" in "C3{{.home}}C0" before the command line is parsed

   C5{{.projurl}}C0
`
)
