package main

import "github.com/huanfeng/storesim/cmd"

func main() {
	cmd.Execute()
}
