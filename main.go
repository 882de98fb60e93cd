package main

import "github.com/jmvrbanac/ghost-scrub/cmd/ghostscrub"

func main() { ghostscrub.Execute() }
