// README: Offline rating checker; replays canned fee scenarios against the
// engine and prints a PASS/FAIL summary.
package main

import (
	"flag"
	"fmt"
	"os"
)

func main() {
	verbose := flag.Bool("v", false, "print every scenario, not only failures")
	flag.Parse()

	pass, fail := 0, 0
	for _, sc := range scenarios() {
		got, err := sc.run()
		switch {
		case err != nil && sc.wantErr:
			pass++
			if *verbose {
				fmt.Printf("PASS %-40s expected error: %v\n", sc.name, err)
			}
		case err != nil:
			fail++
			fmt.Printf("FAIL %-40s unexpected error: %v\n", sc.name, err)
		case sc.wantErr:
			fail++
			fmt.Printf("FAIL %-40s got %s, expected an error\n", sc.name, got)
		case got != sc.want:
			fail++
			fmt.Printf("FAIL %-40s got %s, want %s\n", sc.name, got, sc.want)
		default:
			pass++
			if *verbose {
				fmt.Printf("PASS %-40s %s\n", sc.name, got)
			}
		}
	}

	fmt.Printf("\n== Summary ==\nPASS=%d FAIL=%d\n", pass, fail)
	if fail > 0 {
		os.Exit(1)
	}
}
