package main

import (
	"context"
	"flag"
	"fmt"
	"image"
	"os"

	"tryon-ar/internal/asset"
	"tryon-ar/internal/mapper"
)

func main() {
	root := flag.String("root", ".", "Directory relative references resolve against")
	baseWidth := flag.Float64("base-width", mapper.DefaultBaseWidth, "Overlay width at scale 1, in preview units")
	despeckle := flag.Float64("despeckle", 0.02, "Report specks smaller than this fraction of visible pixels")
	flag.Parse()

	if flag.NArg() == 0 {
		fmt.Fprintln(os.Stderr, "usage: overlaycheck [-root dir] <image-ref>...")
		os.Exit(2)
	}

	cache := asset.NewCache(nil, *root)
	failed := 0
	for _, ref := range flag.Args() {
		img, err := cache.Load(context.Background(), ref)
		if err != nil {
			fmt.Printf("%s: %v\n", ref, err)
			failed++
			continue
		}
		report(ref, img, *baseWidth)
		reportSpecks(img, *despeckle)
	}
	if failed > 0 {
		os.Exit(1)
	}
}

func report(name string, img *image.NRGBA, baseWidth float64) {
	b := img.Bounds()
	w, h := b.Dx(), b.Dy()
	var minA, maxA uint8 = 255, 0
	total, opaque, transparent := 0, 0, 0
	minX, minY, maxX, maxY := w, h, -1, -1
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			a := img.Pix[y*img.Stride+x*4+3]
			total++
			if a < minA {
				minA = a
			}
			if a > maxA {
				maxA = a
			}
			switch a {
			case 255:
				opaque++
			case 0:
				transparent++
				continue
			}
			minX, minY = min(minX, x), min(minY, y)
			maxX, maxY = max(maxX, x), max(maxY, y)
		}
	}

	fmt.Printf("%s: %dx%d, alpha: min=%d max=%d opaque=%.0f%% clear=%.0f%%\n",
		name, w, h, minA, maxA, 100*float64(opaque)/float64(total), 100*float64(transparent)/float64(total))
	if maxX < 0 {
		fmt.Println("  fully transparent: nothing would be drawn")
		return
	}
	fmt.Printf("  visible box: (%d,%d)-(%d,%d)\n", minX, minY, maxX+1, maxY+1)
	fmt.Printf("  drawn at scale 1: %.0fx%.0f preview units\n", baseWidth, baseWidth*float64(h)/float64(w))
	if minA == 255 {
		fmt.Println("  warning: no transparency, the overlay will cover the frame as a rectangle")
	}
}

func reportSpecks(img *image.NRGBA, ratio float64) {
	_, sizes := asset.Components(img)
	if len(sizes) == 0 {
		return
	}
	_, removed := asset.Despeckle(img, ratio)
	fmt.Printf("  components: %d, speck pixels below %.0f%%: %d\n", len(sizes), 100*ratio, removed)
}
