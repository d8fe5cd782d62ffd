package main

import "github.com/itsmostafa/chapterfix/cmd"

func main() {
	cmd.Execute()
}
