package main

import (
	"github.com/shouni/go-carousel-kit/cmd"
)

// main はアプリケーションの唯一のエントリーポイントです。
// コマンドライン引数の解析と実行はすべて cmd パッケージに委ねます。
func main() {
	cmd.Execute()
}
