package main

import "github.com/repoaudit/repoaudit/cmd/repoaudit"

func main() { repoaudit.Execute() }
