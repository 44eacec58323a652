// Command inspect prints the container header and object table of an asset
// bundle without extracting anything.
package main

import (
	"fmt"
	"os"

	"saber2reesaber/internal/bundle"
)

func main() {
	if len(os.Args) < 2 {
		fmt.Fprintln(os.Stderr, "Usage: inspect <bundle-file>")
		os.Exit(1)
	}

	b, err := bundle.Open(os.Args[1])
	if err != nil {
		fmt.Printf("Error: %v\n", err)
		os.Exit(1)
	}

	fmt.Printf("Signature: %s, format %d, engine %s\n", b.Signature, b.FormatVersion, b.EngineVersion)
	fmt.Printf("Nodes: %d\n", len(b.Nodes))
	for _, n := range b.Nodes {
		fmt.Printf("  %s (%d bytes)\n", n.Path, len(n.Data))
	}

	objs := b.Objects()
	fmt.Printf("Objects: %d\n", len(objs))
	counts := map[string]int{}
	for _, o := range objs {
		fmt.Printf("  %-14s pathID=%-12d size=%d\n", o.Class, o.PathID, o.Size)
		counts[o.Class.String()]++
	}

	fmt.Println("By class:")
	for _, class := range []bundle.ClassID{bundle.ClassMesh, bundle.ClassTexture2D, bundle.ClassSprite} {
		fmt.Printf("  %s: %d\n", class, counts[class.String()])
	}
}
