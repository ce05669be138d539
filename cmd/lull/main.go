// Command lull compiles and runs lull source code: it parses, statically
// checks, lowers to bytecode, and either writes the bytecode image to
// a file or loads/executes one through the virtual machine.
package main

import (
	"flag"
	"fmt"
	"log"
	"os"
	"os/user"

	"lull/ast"
	"lull/bytecode"
	"lull/checker"
	"lull/compiler"
	"lull/lexer"
	"lull/natives"
	"lull/parser"
	"lull/repl"
	"lull/vm"
)

const version = "0.1.0"

func printUsage() {
	_, _ = fmt.Fprintf(os.Stderr, `lull v%s

USAGE:
    %s [OPTIONS] [script]

DESCRIPTION:
    lull compiles and runs lull source code. Without -c/-r, it compiles the
    given source (file argument, or -e/--eval) and runs it in-memory,
    printing any yielded values as they occur. With no script argument and
    no -e, it launches an interactive REPL instead.

OPTIONS:
    -check                  Parse and statically check only; print OK or errors
    -c, --compile <out>     Compile source to a bytecode container file
    -r, --run <file>        Load a bytecode container file and run it
    -e, --eval <code>       Evaluate a snippet of source directly
    -dump-ast               Print the parsed AST, then stop unless -check or -c is given
    -dump-bytecode          Print the disassembled bytecode, then stop unless -c is given
    -d, --debug             Verbose diagnostics on stderr
    -v, --version           Show version information
    -h, --help              Show this help message

EXIT CODES:
    0 success, 1 parse error, 2 compile error, 3 runtime error
`, version, os.Args[0])
}

func main() {
	flag.Usage = printUsage

	checkFlag := flag.Bool("check", false, "parse and statically check only")
	compileOut := flag.String("compile", "", "compile source to a bytecode container file")
	runFile := flag.String("run", "", "load a bytecode container file and run it")
	evalFlag := flag.String("eval", "", "evaluate a snippet of source directly")
	dumpAST := flag.Bool("dump-ast", false, "print the parsed AST instead of compiling")
	dumpBytecode := flag.Bool("dump-bytecode", false, "print the disassembled bytecode")
	debugFlag := flag.Bool("debug", false, "verbose diagnostics on stderr")
	versionFlag := flag.Bool("version", false, "show version information")

	flag.StringVar(compileOut, "c", "", "compile source to a bytecode container file")
	flag.StringVar(runFile, "r", "", "load a bytecode container file and run it")
	flag.StringVar(evalFlag, "e", "", "evaluate a snippet of source directly")
	flag.BoolVar(debugFlag, "d", false, "verbose diagnostics on stderr")
	flag.BoolVar(versionFlag, "v", false, "show version information")

	flag.Parse()

	if *versionFlag {
		fmt.Printf("lull v%s\n", version)
		return
	}

	if *debugFlag {
		log.SetFlags(0)
		log.SetPrefix("lull: debug: ")
	}

	if *runFile != "" {
		runBytecodeFile(*runFile, *debugFlag)
		return
	}

	if *evalFlag == "" && flag.NArg() == 0 {
		username := "unknown"
		if usr, err := user.Current(); err == nil {
			username = usr.Username
		}
		repl.Start(username, repl.Options{Debug: *debugFlag})
		return
	}

	src, err := sourceText(*evalFlag)
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
	if *debugFlag {
		log.Printf("source size: %d bytes", len(src))
	}

	srcName := "<eval>"
	if *evalFlag == "" {
		srcName = flag.Arg(0)
	}

	program, perrs := parseSource(src)
	if len(perrs) != 0 {
		for i := range perrs {
			perrs[i] = srcName + ":" + perrs[i]
		}
		reportAndExit(1, perrs)
	}

	if *dumpAST {
		fmt.Println(program.String())
		if !*checkFlag && *compileOut == "" {
			return
		}
	}

	if cerrs := checker.Check(program); len(cerrs) != 0 {
		msgs := make([]string, len(cerrs))
		for i, e := range cerrs {
			msgs[i] = srcName + ":" + e.Error()
		}
		reportAndExit(1, msgs)
	}
	if *checkFlag {
		fmt.Println("OK")
		return
	}

	comp := compiler.New()
	prog, err := comp.Compile(program)
	if err != nil {
		reportAndExit(2, []string{err.Error()})
	}
	if err := prog.Validate(); err != nil {
		reportAndExit(2, []string{err.Error()})
	}
	if *debugFlag {
		log.Printf("compiled function count: %d", len(prog))
	}

	if *dumpBytecode {
		fmt.Println(bytecode.Disassemble(prog))
		if *compileOut == "" {
			return
		}
	}

	if *compileOut != "" {
		writeBytecodeFile(*compileOut, prog)
		return
	}

	runProgram(prog, *debugFlag)
}

func sourceText(evalCode string) (string, error) {
	if evalCode != "" {
		return evalCode, nil
	}
	args := flag.Args()
	if len(args) != 1 {
		return "", fmt.Errorf("expected exactly one script file argument, or -e/--eval")
	}
	//nolint:gosec // CLI is given a path by the invoking user, not untrusted input
	content, err := os.ReadFile(args[0])
	if err != nil {
		return "", fmt.Errorf("reading %s: %w", args[0], err)
	}
	return string(content), nil
}

func parseSource(src string) (*ast.Program, []string) {
	l := lexer.New(src)
	p := parser.New(l)
	program := p.ParseProgram()
	if errs := p.Errors(); len(errs) != 0 {
		msgs := make([]string, len(errs))
		for i, e := range errs {
			msgs[i] = e.Error()
		}
		return nil, msgs
	}
	return program, nil
}

func writeBytecodeFile(path string, prog bytecode.Program) {
	f, err := os.Create(path)
	if err != nil {
		reportAndExit(2, []string{fmt.Sprintf("creating %s: %s", path, err)})
	}
	defer f.Close()
	if err := bytecode.Write(f, prog); err != nil {
		reportAndExit(2, []string{fmt.Sprintf("writing %s: %s", path, err)})
	}
}

func runBytecodeFile(path string, debug bool) {
	//nolint:gosec // CLI is given a path by the invoking user, not untrusted input
	f, err := os.Open(path)
	if err != nil {
		reportAndExit(3, []string{fmt.Sprintf("opening %s: %s", path, err)})
	}
	defer f.Close()

	prog, err := bytecode.Read(f)
	if err != nil {
		reportAndExit(3, []string{fmt.Sprintf("loading %s: %s", path, err)})
	}
	if err := prog.Validate(); err != nil {
		reportAndExit(3, []string{err.Error()})
	}
	runProgram(prog, debug)
}

// runProgram runs main to completion, printing any Suspend values observed
// along the way as host-visible output (SPEC_FULL.md §6: there is no
// richer host protocol specified, so every top-level yield is treated as
// observable output).
func runProgram(prog bytecode.Program, debug bool) {
	machine := vm.New(prog, natives.Table())
	if err := machine.Init("main", nil); err != nil {
		reportAndExit(3, []string{err.Error()})
	}
	for {
		res, err := machine.Resume()
		if err != nil {
			reportAndExit(3, []string{err.Error()})
		}
		if res.Status == vm.Suspended {
			if debug {
				log.Printf("yield: %s", res.Value.Debug())
			}
			fmt.Println(res.Value.Inspect())
			continue
		}
		return
	}
}

func reportAndExit(code int, msgs []string) {
	for _, m := range msgs {
		fmt.Fprintln(os.Stderr, m)
	}
	os.Exit(code)
}
