package main

import (
	"fmt"
	"image"
	"image/color"
	"image/png"
	"io"
	"log"
	"os"
	"path"
	"strconv"
	"strings"
	"sync"
	"syscall"

	_ "image/gif"
	_ "image/jpeg"

	"github.com/qrbrand/qr"
	"github.com/qrbrand/qr/coding"

	"github.com/mattn/go-isatty"
	"github.com/pborman/getopt/v2"
)

var g = struct {
	scale   int             // scale
	border  int             // quiet zone
	palette *[2]color.Color // palette
	rev     bool            // reverse colours
	fn      string          // filename
	fext    string          // filename suffix
	lev     qr.Level        // QR correction level
	ver     coding.Version  // forced QR version
	format  int             // output file format
	bg, fg  rgba            // colour
	colSet  bool            // colour set
	latin1  bool            // Latin-1 byte mode
	upper   bool            // uppercase
	logo    string          // logo image file
}{
	bg: rgba{0xff, 0xff, 0xff, 0xff},
	fg: rgba{0x00, 0x00, 0x00, 0xff},
}

func printUsage(w io.Writer) {
	cl := getopt.CommandLine
	fmt.Fprint(w, "QR code generator\nUsage: ", cl.Program(), " ",
		cl.UsageLine(), ` [string ...]
If no string is given, data is read from standard input and the final
newline is stripped.  Each string is encoded as a separate QR code;
with several strings, "-01", "-02" etc. is appended to the output
filename before the suffix.

`)
	cl.PrintOptions(w)
}

type opt func()

func (opt) String() string                    { return "" }
func (o opt) Set(string, getopt.Option) error { o(); return nil }

func usage() {
	printUsage(os.Stderr)
	os.Exit(2)
}

func help() {
	printUsage(os.Stdout)
	os.Exit(0)
}

func version() {
	fmt.Println(`qr version 1.0.0
Copyright (c) 2025 The qrbrand Authors`)
	os.Exit(0)
}

type rgba struct {
	R, G, B, A uint8
}

func (c *rgba) String() string {
	if *c == (rgba{0x00, 0x00, 0x00, 0xff}) {
		return "black"
	} else if *c == (rgba{0xff, 0xff, 0xff, 0xff}) {
		return "white"
	} else if c.A == 0xff {
		return fmt.Sprintf("%02x%02x%02x", c.R, c.G, c.B)
	} else {
		return fmt.Sprintf("%02x%02x%02x%02x", c.R, c.G, c.B, c.A)
	}
}

func (c *rgba) Set(s string, _ getopt.Option) error {
	g.colSet = true
	switch strings.ToLower(s) {
	case "black":
		*c = rgba{0x00, 0x00, 0x00, 0xff}
		return nil
	case "white":
		*c = rgba{0xff, 0xff, 0xff, 0xff}
		return nil
	}
	n, err := strconv.ParseUint(s, 16, 32)
	if err != nil {
		return fmt.Errorf("%q: bad colour spec", s)
	}
	switch len(s) {
	case 3:
		n = n<<4 | 0xf
		fallthrough
	case 4:
		var nn uint64
		for i := 0; i < 4; i++ {
			nn <<= 8
			nn |= n >> 12 & 0xf * 0x11
			n <<= 4
		}
		n = nn
	case 6:
		n = n<<8 | 0xff
	case 8:
	default:
		return fmt.Errorf("%q: bad colour spec", s)
	}
	c.R, c.G, c.B, c.A = uint8(n>>24), uint8(n>>16), uint8(n>>8), uint8(n)
	return nil
}

var formats = []string{
	"png", "pngi", "pbm", "pbmi", "utf8", "utf8i", "ascii", "asciii",
}

var encoders = [...]func(*qr.Code, io.Writer) error{
	(*qr.Code).EncodePNG,
	(*qr.Code).EncodePBM,
	func(c *qr.Code, w io.Writer) error {
		_, err := fmt.Fprint(w, c)
		return err
	},
	ascii,
}

func parseFlags() {
	getopt.SetUsage(usage)
	getopt.Flag(opt(help), 'h', "show this help").SetFlag()
	getopt.Flag(opt(version), 'V', "print version and copyright").SetFlag()
	getopt.FlagLong(&g.bg, "background", 'B', `background colour; see -F`,
		"RGB[A]")
	getopt.FlagLong(&g.fg, "foreground", 'F', `foreground colour `+
		`as 3, 4, 6 or 8 hex digits, "black" or "white"; `+
		`only for type png[i]`, "RGB[A]")
	getopt.Flag(&g.latin1, '1',
		"convert byte mode segments to Latin-1")
	getopt.Flag(&g.upper, 'i', "ignore case, convert input to uppercase")
	getopt.Flag(&g.border, 'm', "quiet zone pixels [4]", "margin")
	fno := getopt.Flag(&g.fn, 'o', `output file, or "-" for `+
		`standard output`, "file")
	getopt.FlagLong(&g.logo, "logo", 'L', `image file composited over `+
		`the code centre; implies -l h and type png[i]`, "file")
	ver := getopt.Unsigned('v', 1, &getopt.UnsignedLimit{Base: 0, Bits: 8, Min: 1, Max: 40},
		"QR code version; default is the smallest that fits", "ver")
	lev := getopt.Enum('l',
		[]string{"l", "m", "q", "h", "L", "M", "Q", "H"}, "l",
		"error correction level, lowest to highest", "l|m|q|h")
	scale := getopt.Unsigned('s', 8,
		&(getopt.UnsignedLimit{Base: 0, Bits: 28, Min: 1, Max: 1 << 28}),
		`image pixels per QR module ("pixel"); `+
			`ignored for types utf8[i] and ascii[i]`, "scale")
	ff := getopt.Enum('t', formats, "", `output format, one of: `+
		strings.Join(formats, ", ")+
		`; types with "i" appended have colours inverted; `+
		`if no -o is given and standard output is a TTY, `+
		`default is utf8, otherwise png`, "type")

	getopt.Parse()
	g.scale = int(*scale)
	g.lev = qr.Level(strings.Index("lmqhLMQH", *lev) & 3)
	if getopt.IsSet('v') {
		g.ver = coding.Version(*ver)
	}
	if !getopt.IsSet('m') {
		g.border = -1
	}
	if g.logo != "" {
		if !getopt.IsSet('l') {
			g.lev = qr.H
		}
		if *ff == "" {
			*ff = "png"
		} else if *ff != "png" && *ff != "pngi" {
			fmt.Fprintln(os.Stderr, "-L requires type png or pngi")
			usage()
		}
	}
	if *ff == "" {
		if !fno.Seen() && isatty.IsTerminal(uintptr(syscall.Stdout)) {
			*ff = "utf8"
		} else {
			*ff = "png"
		}
	}
	for i, v := range formats {
		if *ff == v {
			g.format = i >> 1
			g.rev = i&1 != 0
			break
		}
	}
	if g.fn == "-" {
		g.fn = ""
	}
	if g.colSet {
		g.palette = &[2]color.Color{color.RGBA(g.bg), color.RGBA(g.fg)}
	}
}

func main() {
	log.SetFlags(0)
	parseFlags()

	var logo image.Image
	if g.logo != "" {
		f, err := os.Open(g.logo)
		if err != nil {
			log.Fatalln(err)
		}
		if logo, _, err = image.Decode(f); err != nil {
			log.Fatalln(g.logo+":", err)
		}
		f.Close()
	}

	var ss []string
	if args := getopt.Args(); len(args) != 0 {
		ss = args
	} else {
		var b strings.Builder
		if _, err := io.Copy(&b, os.Stdin); err != nil {
			log.Fatalln(err)
		}
		s, _ := strings.CutSuffix(
			strings.ReplaceAll(b.String(), "\r\n", "\n"), "\n")
		ss = []string{s}
	}
	if len(ss) > 1 {
		g.fext = path.Ext(g.fn)
		g.fn = g.fn[:len(g.fn)-len(g.fext)]
	}

	// Encode the codes concurrently, then write them in order.
	var wg sync.WaitGroup
	cc := make([]*qr.Code, len(ss))
	errs := make([]error, len(ss))
	for i, s := range ss {
		if g.upper {
			s = strings.ToUpper(s)
		}
		wg.Add(1)
		go func(i int, s string) {
			defer wg.Done()
			cc[i], errs[i] = encode(s)
		}(i, s)
	}
	wg.Wait()
	for i, err := range errs {
		if err == nil {
			err = write(i, len(ss), cc[i], logo)
		}
		if err != nil {
			log.Fatalln(err)
		}
	}
}

func encode(s string) (*qr.Code, error) {
	var c *qr.Code
	var err error
	switch {
	case g.ver != 0:
		c, err = qr.EncodeVersion(s, g.lev, g.ver)
	case g.latin1:
		c, err = qr.EncodeLatin1(s, g.lev)
	default:
		c, err = qr.Encode(s, g.lev)
	}
	if err != nil {
		return nil, err
	}
	c.Scale = g.scale
	c.Palette = g.palette
	c.Reverse = g.rev
	if g.border >= 0 {
		c.Border = g.border
	}
	return c, nil
}

func write(i, n int, c *qr.Code, logo image.Image) error {
	fn := g.fn
	w := os.Stdout
	if fn != "" || g.fext != "" {
		if n > 1 {
			fn = fmt.Sprintf("%s-%02d%s", fn, i+1, g.fext)
		}
		var err error
		if w, err = os.OpenFile(fn, os.O_WRONLY|os.O_CREATE|os.O_TRUNC,
			0666); err != nil {
			return err
		}
	}
	var err error
	if logo != nil {
		var img image.Image
		if img, err = c.ImageWithLogo(logo); err == nil {
			err = png.Encode(w, img)
		}
	} else {
		err = encoders[g.format](c, w)
	}
	if w != os.Stdout && err == nil {
		err = w.Close()
	}
	return err
}

func ascii(c *qr.Code, w io.Writer) error {
	siz := c.Size
	bord := c.Border
	pix := siz + 2*bord
	b := make([]byte, (pix*2+1)*pix)
	i := 0
	for y := -bord; y < siz+bord; y++ {
		for x := -bord; x < siz+bord; x++ {
			p := byte(' ')
			if c.Black(x, y) != c.Reverse {
				p = '#'
			}
			b[i], b[i+1] = p, p
			i += 2
		}
		b[i] = '\n'
		i++
	}
	_, err := w.Write(b)
	return err
}
