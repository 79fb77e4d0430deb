package main

import (
	"fmt"
	"os"

	"github.com/mgutz/logxi/v1"
	"github.com/pkg/errors"
	"github.com/urfave/cli"

	"github.com/currantlabs/findme/peripheral"
	"github.com/currantlabs/findme/schema"
)

var logger = log.New("findme")

var profile *schema.Schema

func main() {
	app := cli.NewApp()

	app.Name = "findme"
	app.Usage = "Simulate a Find Me target"
	app.Version = "0.0.1"
	app.Action = cli.ShowAppHelp
	app.Flags = []cli.Flag{
		cli.StringFlag{
			Name:  "schema, s",
			Usage: "attribute schema (default: built-in Find Me profile)",
		},
		cli.IntFlag{
			Name:  "mtu, m",
			Usage: "largest ATT_MTU accepted (default: from schema)",
		},
	}

	app.Commands = []cli.Command{
		{
			Name:    "dump",
			Aliases: []string{"d"},
			Usage:   "Print the attribute table",
			Action:  dump,
		},
		{
			Name:      "replay",
			Aliases:   []string{"r"},
			Usage:     "Run a script of requests and link layer events",
			ArgsUsage: "<script.yaml>",
			Action:    replay,
		},
		{
			Name:    "shell",
			Aliases: []string{"sh"},
			Usage:   "Entering interactive mode",
			Action:  shell,
		},
	}

	app.Before = setup
	if err := app.Run(os.Args); err != nil {
		fmt.Fprintf(os.Stderr, "findme: %s\n", err)
		os.Exit(1)
	}
}

func setup(c *cli.Context) error {
	if c.GlobalString("schema") == "" {
		profile = schema.Default()
		return nil
	}
	s, err := schema.Load(c.GlobalString("schema"))
	if err != nil {
		return errors.Wrap(err, "can't load schema")
	}
	profile = s
	return nil
}

// newRunner builds a started peripheral wired to the console.
func newRunner(c *cli.Context) (*runner, error) {
	t := &consoleTransport{}
	opts := []peripheral.Option{
		peripheral.OptTransport(t),
		peripheral.OptDriver(consoleDriver{}),
	}
	if mtu := c.GlobalInt("mtu"); mtu != 0 {
		opts = append(opts, peripheral.OptMTU(mtu))
	}
	p, err := peripheral.New(profile, opts...)
	if err != nil {
		return nil, errors.Wrap(err, "can't create peripheral")
	}
	if err := p.Start(); err != nil {
		return nil, err
	}
	r := &runner{p: p, t: t, w: os.Stdout}
	r.flush()
	return r, nil
}

func dump(c *cli.Context) error {
	r, err := newRunner(c)
	if err != nil {
		return err
	}
	fmt.Printf("%s\n\n", profile.Name)
	return r.p.Dump(os.Stdout)
}

func replay(c *cli.Context) error {
	if c.NArg() != 1 {
		return errors.New("replay needs exactly one script")
	}
	sc, err := loadScript(c.Args().First())
	if err != nil {
		return err
	}
	r, err := newRunner(c)
	if err != nil {
		return err
	}
	return r.run(sc)
}
