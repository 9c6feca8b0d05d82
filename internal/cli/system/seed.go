package system

import (
	"github.com/julianstephens/moments/internal/cli"
	"github.com/julianstephens/moments/internal/repository"
)

type SeedCmd struct{}

func (c *SeedCmd) Run(ctx *cli.Context) error {
	n, err := ctx.Repo.SeedIfMissing(repository.DemoEntries())
	if err != nil {
		return err
	}
	if n == 0 {
		ctx.Println("All demo moments are already present.")
		return nil
	}
	ctx.Printf("Added %d demo moment(s).\n", n)
	return nil
}
