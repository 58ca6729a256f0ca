package main

import (
	"fmt"
	"os"
)

const banner = `
╔══════════════════════════════════════╗
║     TRAHN Dashboard Daily Update     ║
╚══════════════════════════════════════╝
`

func main() {
	fmt.Fprint(os.Stderr, banner)

	if err := newApp(os.Stdout).Run(os.Args); err != nil {
		os.Exit(1)
	}
}
