package main

import (
	"flag"

	"taskflow/internal/collections"
)

func main() {
	confPath := flag.String("config", "configs/collections.env", "path to the env config file")
	flag.Parse()

	collections.InitAndServe(*confPath)
}
