package main

import (
	"flag"

	"taskflow/internal/front"
)

func main() {
	confPath := flag.String("config", "configs/front.env", "path to the env config file")
	flag.Parse()

	front.InitAndServe(*confPath)
}
