// Package server implements the line-oriented TCP front end.
//
// Each accepted connection becomes one worker.Job: the job reads the request
// line, looks it up in a two-entry route table ("GET /" and "GET /sleep"),
// reads the matching page from the static directory and writes
//
//	HTTP/1.1 <status>\r\nContent-Length: <n>\r\n\r\n<body>
//
// Anything else is answered with 404.html. A missing page yields a 500 with an
// empty body.
//
// Serve stops accepting when its context is cancelled. Connections already
// handed to the executor finish when the executor is shut down.
package server
