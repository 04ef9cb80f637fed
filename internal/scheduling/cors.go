package scheduling

import "github.com/nao1215/scheduling/pkg/middleware"

// createEventPolicy はイベント作成ルートのCORSポリシー。
// ブラウザのフォームから資格情報付きで送信されるため、ヘッダーの許可リストを持つ。
var createEventPolicy = middleware.CORSPolicy{
	AllowAnyOrigin:   true,
	AllowCredentials: true,
	AllowHeaders: []string{
		"User-Agent",
		"Access-Control-Allow-Origin",
		"Access-Control-Allow-Headers",
		"content-type",
		"Origin",
		"Referer",
		"Access-Control-Request-Method",
	},
	AllowMethods: []string{"POST", "GET", "HEAD", "OPTIONS"},
}

// listEventsPolicy はイベント一覧ルートのCORSポリシー。
var listEventsPolicy = middleware.CORSPolicy{
	AllowAnyOrigin: true,
	AllowMethods:   []string{"POST", "GET", "HEAD", "OPTIONS"},
}
