package server

import "fmt"

const (
	StatusOK                  = "HTTP/1.1 200 OK"
	StatusNotFound            = "HTTP/1.1 404 Not Found"
	StatusInternalServerError = "HTTP/1.1 500 Internal Server Error"
)

// Route はリクエスト行に対する応答の決定結果
type Route struct {
	Status string
	File   string
	Sleep  bool // 応答前に SleepDelay だけ待つ
}

// Lookup はリクエスト行をルートテーブルで引く
// 完全一致のみ。一致しなければ 404
func Lookup(requestLine string) Route {
	switch requestLine {
	case "GET / HTTP/1.1":
		return Route{Status: StatusOK, File: "hello.html"}
	case "GET /sleep HTTP/1.1":
		return Route{Status: StatusOK, File: "hello.html", Sleep: true}
	default:
		return Route{Status: StatusNotFound, File: "404.html"}
	}
}

// FormatResponse はステータス行と本文から応答を組み立てる
func FormatResponse(status string, body []byte) []byte {
	head := fmt.Sprintf("%s\r\nContent-Length: %d\r\n\r\n", status, len(body))
	return append([]byte(head), body...)
}
