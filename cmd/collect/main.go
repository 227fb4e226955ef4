package main

import (
	"os"
)

// 命令行入口：手动查看站点配置或一次性生成某个 feed
func main() {
	if err := newRootCmd().Execute(); err != nil {
		os.Exit(1)
	}
}
