package main

import (
	"bytes"
	"flag"
	"io"
	"os"
	"path/filepath"

	"github.com/CedoispirDB/BFC/config"
	"github.com/CedoispirDB/BFC/core"
	"github.com/CedoispirDB/BFC/program"
	"github.com/CedoispirDB/BFC/verify"
	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
)

var _ = Describe("Bfc", func() {
	var (
		dir    string
		stdout *bytes.Buffer
		stderr *bytes.Buffer
	)

	BeforeEach(func() {
		dir = GinkgoT().TempDir()
		stdout = new(bytes.Buffer)
		stderr = new(bytes.Buffer)
	})

	write := func(name, content string) string {
		path := filepath.Join(dir, name)
		Expect(os.WriteFile(path, []byte(content), 0o644)).To(Succeed())
		return path
	}

	parse := func(args ...string) (config.Config, options, error) {
		var opts options

		fs := flag.NewFlagSet("bfc", flag.ContinueOnError)
		fs.SetOutput(io.Discard)
		registerFlags(fs, &opts)
		Expect(fs.Parse(args)).To(Succeed())

		cfg, err := buildConfig(fs, opts)

		return cfg, opts, err
	}

	Context("when building the configuration", func() {
		It("should let flags override the file", func() {
			path := write("bfc.yaml", "eof: unchanged\nmax_steps: 50\n")

			cfg, _, err := parse("-config", path, "-eof", "zero")

			Expect(err).NotTo(HaveOccurred())
			Expect(cfg.EOF).To(Equal(core.EOFZero))
			Expect(cfg.MaxSteps).To(Equal(uint64(50)))
		})

		It("should keep file values for flags that were not set", func() {
			path := write("bfc.toml", "eof = \"minus-one\"\nmode = \"sim\"\n")

			cfg, _, err := parse("-config", path, "-max-steps", "7")

			Expect(err).NotTo(HaveOccurred())
			Expect(cfg.EOF).To(Equal(core.EOFMinusOne))
			Expect(cfg.Mode).To(Equal(config.ModeSim))
			Expect(cfg.MaxSteps).To(Equal(uint64(7)))
		})

		It("should raise the log level for tracing", func() {
			cfg, _, err := parse("-trace")

			Expect(err).NotTo(HaveOccurred())
			Expect(cfg.Trace).To(BeTrue())
			Expect(cfg.LogLevel).To(Equal("trace"))
		})

		It("should reject an unknown EOF policy", func() {
			_, _, err := parse("-eof", "sometimes")

			Expect(err).To(HaveOccurred())
		})

		It("should reject an unknown mode", func() {
			_, _, err := parse("-mode", "turbo")

			Expect(err).To(HaveOccurred())
		})
	})

	Context("when running a program", func() {
		DescribeTable("should map the result to an exit status",
			func(src string, mode string, want int) {
				prog := write("p.bf", src)
				in := write("in.txt", "")
				cfg := config.Default()
				cfg.Mode = mode

				Expect(run(prog, cfg, options{inputPath: in}, stdout, stderr)).To(Equal(want))
			},
			Entry("completed", "+.", config.ModeDirect, exitOK),
			Entry("runtime error", "+.<", config.ModeDirect, exitRuntime),
			Entry("parse error", "+]", config.ModeDirect, exitUsage),
			Entry("completed in sim mode", "+.", config.ModeSim, exitOK),
			Entry("runtime error in sim mode", "<", config.ModeSim, exitRuntime),
		)

		It("should write the program output", func() {
			prog := write("echo.bf", ",+.,+.")
			in := write("in.txt", "AB")

			code := run(prog, config.Default(), options{inputPath: in}, stdout, stderr)

			Expect(code).To(Equal(exitOK))
			Expect(stdout.String()).To(Equal("BC"))
		})

		It("should keep the output written before a runtime error", func() {
			prog := write("p.bf", "++.<")
			in := write("in.txt", "")

			code := run(prog, config.Default(), options{inputPath: in}, stdout, stderr)

			Expect(code).To(Equal(exitRuntime))
			Expect(stdout.Bytes()).To(Equal([]byte{2}))
			Expect(stderr.String()).To(ContainSubstring("TapeUnderflow"))
		})

		It("should fail on a missing program", func() {
			code := run(filepath.Join(dir, "none.bf"), config.Default(), options{}, stdout, stderr)

			Expect(code).To(Equal(exitUsage))
			Expect(stderr.String()).To(ContainSubstring("read program"))
		})

		It("should fail on a missing input file", func() {
			prog := write("p.bf", "+")

			code := run(prog, config.Default(),
				options{inputPath: filepath.Join(dir, "none.txt")}, stdout, stderr)

			Expect(code).To(Equal(exitUsage))
			Expect(stderr.String()).To(ContainSubstring("open input"))
		})
	})

	Context("when compiling an image", func() {
		It("should run the image it wrote", func() {
			prog := write("at.bf", "++++++++[>++++++++<-]>.")
			img := filepath.Join(dir, "at.bfi")
			in := write("in.txt", "")

			Expect(run(prog, config.Default(), options{emit: img}, stdout, stderr)).
				To(Equal(exitOK))
			Expect(stdout.Len()).To(BeZero())

			Expect(run(img, config.Default(), options{inputPath: in}, stdout, stderr)).
				To(Equal(exitOK))
			Expect(stdout.String()).To(Equal("@"))
		})

		It("should write the image before a report", func() {
			prog := write("p.bf", "+.")
			img := filepath.Join(dir, "p.bfi")
			in := write("in.txt", "")

			code := run(prog, config.Default(),
				options{report: true, emit: img, inputPath: in}, stdout, stderr)

			Expect(code).To(Equal(exitOK))
			Expect(stdout.String()).To(ContainSubstring("PROGRAM REPORT"))
			Expect(img).To(BeAnExistingFile())
		})

		It("should write the image before a lint", func() {
			prog := write("p.bf", "+.")
			img := filepath.Join(dir, "p.bfi")

			code := run(prog, config.Default(), options{lint: true, emit: img}, stdout, stderr)

			Expect(code).To(Equal(exitOK))
			Expect(stdout.String()).To(ContainSubstring("ok"))
			Expect(img).To(BeAnExistingFile())
		})

		It("should not open the input", func() {
			prog := write("p.bf", "+.")
			img := filepath.Join(dir, "p.bfi")

			code := run(prog, config.Default(),
				options{emit: img, inputPath: filepath.Join(dir, "none.txt")}, stdout, stderr)

			Expect(code).To(Equal(exitOK))
			Expect(img).To(BeAnExistingFile())
		})

		It("should not write an image for a program that does not load", func() {
			prog := write("p.bf", "[+")
			img := filepath.Join(dir, "p.bfi")

			code := run(prog, config.Default(), options{emit: img}, stdout, stderr)

			Expect(code).To(Equal(exitUsage))
			Expect(img).NotTo(BeAnExistingFile())
		})

		It("should reject a corrupt image", func() {
			img := write("bad.bfi", "not an image")

			code := run(img, config.Default(), options{}, stdout, stderr)

			Expect(code).To(Equal(exitUsage))
			Expect(stderr.String()).To(ContainSubstring("load image"))
		})
	})

	Context("when linting", func() {
		DescribeTable("should map issues to an exit status",
			func(src string, want int) {
				prog := write("p.bf", src)

				Expect(run(prog, config.Default(), options{lint: true}, stdout, stderr)).
					To(Equal(want))
			},
			Entry("clean", "+[-]", exitOK),
			Entry("underflow", "<+", exitRuntime),
			Entry("unmatched bracket", "+[", exitUsage),
		)

		It("should print each issue", func() {
			prog := write("p.bf", "]")

			run(prog, config.Default(), options{lint: true}, stdout, stderr)

			Expect(stdout.String()).To(ContainSubstring("STRUCT offset=0"))
		})
	})

	Context("when reporting", func() {
		It("should fail a program that does not complete", func() {
			prog := write("p.bf", "+[]")
			in := write("in.txt", "")
			cfg := config.Default()
			cfg.MaxSteps = 100

			code := run(prog, cfg, options{report: true, inputPath: in}, stdout, stderr)

			Expect(code).To(Equal(exitRuntime))
			Expect(stdout.String()).To(ContainSubstring("PROGRAM HAS PROBLEMS"))
		})
	})

	Context("when dumping tokens", func() {
		It("should show resolved partners for a source file", func() {
			prog := write("p.bf", "[-]")
			in := write("in.txt", "")

			code := run(prog, config.Default(), options{dump: true, inputPath: in}, stdout, stderr)

			Expect(code).To(Equal(exitOK))
			Expect(dumpOf("[-]")).To(Equal(stdout.String()))
		})

		It("should show the same table for an image", func() {
			prog := write("p.bf", "+[->+<]")
			img := filepath.Join(dir, "p.bfi")
			Expect(run(prog, config.Default(), options{emit: img}, stdout, stderr)).To(Equal(exitOK))

			fromSource := new(bytes.Buffer)
			dump(fromSource, []byte("+[->+<]"))

			stdout.Reset()
			Expect(run(img, config.Default(), options{dump: true, emit: filepath.Join(dir, "again.bfi")},
				stdout, stderr)).To(Equal(exitOK))

			Expect(stdout.String()).To(Equal(fromSource.String()))
		})

		It("should still dump a source that does not load", func() {
			buf := new(bytes.Buffer)

			dump(buf, []byte("+["))

			Expect(buf.String()).To(ContainSubstring("Tokens: 2"))
		})
	})

	Context("when choosing the input", func() {
		It("should use stdin by default", func() {
			r, err := openInput("", false)

			Expect(err).NotTo(HaveOccurred())
			Expect(r).To(BeIdenticalTo(os.Stdin))
		})

		It("should give no input when the program came from stdin", func() {
			r, err := openInput("", true)

			Expect(err).NotTo(HaveOccurred())
			Expect(r).To(BeNil())
		})

		It("should open the input file", func() {
			path := write("in.txt", "xyz")

			r, err := openInput(path, true)

			Expect(err).NotTo(HaveOccurred())
			data, err := io.ReadAll(r)
			Expect(err).NotTo(HaveOccurred())
			Expect(string(data)).To(Equal("xyz"))
		})
	})
})

// dumpOf renders the token table of a loaded program.
func dumpOf(src string) string {
	p, err := program.Load([]byte(src))
	Expect(err).NotTo(HaveOccurred())

	var buf bytes.Buffer
	verify.WriteTokens(&buf, p.Insts)

	return buf.String()
}
