package main

import (
	"errors"
	"flag"
	"fmt"
	"os"
	"path"
	"strings"
	"unicode"

	"mirgo/internal/assets"
	"mirgo/internal/config"
)

const scriptsDir = "scripts"

const tmpl = `-- {{.Name}}
-- props are set per component in the inspector, e.g. props.speed

function start()
end

function update(dt)
	local x, y, z = node.position()
	-- node.set_position(x, y, z)
end
`

func main() {
	configPath := flag.String("config", "engine.toml", "engine config file")
	flag.Usage = func() {
		fmt.Fprintf(os.Stderr, "Usage: newscript [-config engine.toml] <ScriptName>\n")
		fmt.Fprintf(os.Stderr, "Example: newscript EnemyChaser\n")
	}
	flag.Parse()
	if flag.NArg() < 1 {
		flag.Usage()
		os.Exit(1)
	}

	name := flag.Arg(0)
	if name == "" || !unicode.IsUpper(rune(name[0])) {
		fmt.Fprintf(os.Stderr, "Error: script name must start with an uppercase letter\n")
		os.Exit(1)
	}

	cfg, err := loadConfig(*configPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}

	fs := assets.OSFS{Root: cfg.Assets.Root}
	outPath := path.Join(scriptsDir, toSnakeCase(name)+".lua")
	if f, err := fs.Open(outPath); err == nil {
		f.Close()
		fmt.Fprintf(os.Stderr, "Error: %s already exists\n", outPath)
		os.Exit(1)
	}

	if err := writeScript(fs, outPath, name); err != nil {
		fmt.Fprintf(os.Stderr, "Error writing file: %v\n", err)
		os.Exit(1)
	}

	db := assets.NewDatabase(fs, 1, nil)
	if _, err := db.LoadIndex(cfg.Assets.Index); err != nil && !errors.Is(err, assets.ErrNotExist) {
		fmt.Fprintf(os.Stderr, "Error reading asset index: %v\n", err)
		os.Exit(1)
	}
	id := db.Import(outPath)
	if err := db.SaveIndex(cfg.Assets.Index); err != nil {
		fmt.Fprintf(os.Stderr, "Error writing asset index: %v\n", err)
		os.Exit(1)
	}

	fmt.Printf("Created %s (asset %s)\n", outPath, id)
	fmt.Printf("Add a LuaScript component to a node and set its script to %s.\n", outPath)
}

// loadConfig falls back to the defaults when the file doesn't exist.
func loadConfig(p string) (*config.Config, error) {
	if _, err := os.Stat(p); errors.Is(err, os.ErrNotExist) {
		return config.Default(), nil
	}
	return config.Load(p)
}

func writeScript(fs assets.FileSystem, p, name string) error {
	f, err := fs.Create(p)
	if err != nil {
		return err
	}
	if _, err := f.Write([]byte(renderTemplate(name))); err != nil {
		f.Close()
		return err
	}
	return f.Close()
}

func renderTemplate(name string) string {
	return strings.ReplaceAll(tmpl, "{{.Name}}", name)
}

func toSnakeCase(s string) string {
	var result []rune
	for i, r := range s {
		if unicode.IsUpper(r) && i > 0 {
			result = append(result, '_')
		}
		result = append(result, unicode.ToLower(r))
	}
	return string(result)
}
