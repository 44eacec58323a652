// Command texdump extracts every decodable Texture2D from a bundle into a
// directory, as WebP by default or PNG with -png.
package main

import (
	"flag"
	"fmt"
	"image/png"
	"os"
	"path/filepath"

	"saber2reesaber/internal/bundle"
	"saber2reesaber/internal/extract"

	"github.com/HugoSmits86/nativewebp"
)

func main() {
	outDir := flag.String("out", "texdump", "Output directory")
	usePNG := flag.Bool("png", false, "Write PNG instead of WebP")
	flag.Parse()

	if flag.NArg() < 1 {
		fmt.Fprintln(os.Stderr, "Usage: texdump [-out dir] [-png] <bundle-file>")
		os.Exit(1)
	}

	b, err := bundle.Open(flag.Arg(0))
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
	if err := os.MkdirAll(*outDir, 0755); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}

	dumped, failed := 0, 0
	for _, o := range b.Objects() {
		if o.Class != bundle.ClassTexture2D {
			continue
		}
		tex, err := o.ReadTexture2D()
		if err != nil {
			fmt.Fprintf(os.Stderr, "ERR %v\n", err)
			failed++
			continue
		}
		img, err := tex.Image()
		if err != nil {
			fmt.Fprintf(os.Stderr, "ERR %v\n", err)
			failed++
			continue
		}

		name := extract.SanitizeName(tex.Name, fmt.Sprintf("texture_%d", o.PathID))
		ext := ".webp"
		if *usePNG {
			ext = ".png"
		}
		path := filepath.Join(*outDir, name+ext)
		f, err := os.Create(path)
		if err != nil {
			fmt.Fprintf(os.Stderr, "ERR %v\n", err)
			failed++
			continue
		}
		if *usePNG {
			err = png.Encode(f, img)
		} else {
			err = nativewebp.Encode(f, img, nil)
		}
		f.Close()
		if err != nil {
			fmt.Fprintf(os.Stderr, "ERR encode %s: %v\n", path, err)
			failed++
			continue
		}
		fmt.Printf("OK  %s  %dx%d %s\n", path, tex.Width, tex.Height, tex.Format)
		dumped++
	}

	fmt.Printf("\nDone. %d texture(s) dumped, %d failed.\n", dumped, failed)
	if failed > 0 {
		os.Exit(1)
	}
}
