package main

import (
	"fmt"
	"log"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/openkms/tokend/internal/token/domain"
	"github.com/openkms/tokend/internal/token/store/drivers/file"
	"github.com/openkms/tokend/pkg/cryptox"
	"github.com/urfave/cli/v2"
)

var flagUsername *cli.StringFlag = &cli.StringFlag{
	Name:  "username",
	Usage: "Username the token authenticates as (empty for anonymous)",
}
var flagPermissions *cli.StringFlag = &cli.StringFlag{
	Name:  "permissions",
	Value: "*:*",
	Usage: "Comma-separated permission strings granted by the token",
}
var flagMax *cli.IntFlag = &cli.IntFlag{
	Name:  "max",
	Usage: "Maximum number of authentications (0 for unlimited)",
}
var flagExpires *cli.StringFlag = &cli.StringFlag{
	Name:  "expires",
	Value: "30m",
	Usage: "Token lifetime, e.g. 30m, 2h, 5d, 1w (empty for no expiration)",
}
var flagDir *cli.StringFlag = &cli.StringFlag{
	Name:  "dir",
	Value: "tokens",
	Usage: "Token directory of the file-backed store",
}

func main() {
	app := &cli.App{
		Name:  "tokenctl",
		Usage: "manage login tokens directly against the token store",
		Commands: []*cli.Command{
			{
				Name:        "mint",
				Usage:       "mint a login token into the file-backed store",
				Description: "Writes the token record directly into the store directory shared with the service, bypassing the HTTP API. Useful for seeding the first token of a deployment.",
				Flags: []cli.Flag{
					flagUsername,
					flagPermissions,
					flagMax,
					flagExpires,
					flagDir,
				},
				Action: mint,
			},
		},
	}

	if err := app.Run(os.Args); err != nil {
		log.Fatal(err)
	}
}

func mint(cCtx *cli.Context) error {
	st, err := file.New(cCtx.String(flagDir.Name))
	if err != nil {
		return err
	}
	defer st.Close()

	value, err := cryptox.GenerateToken(cryptox.TokenSize256)
	if err != nil {
		return fmt.Errorf("failed to generate token: %w", err)
	}

	cred := domain.TokenCredential{
		Value:     value,
		NotBefore: time.Now(),
	}

	if expires := cCtx.String(flagExpires.Name); expires != "" {
		lifetime, err := parseLifetime(expires)
		if err != nil {
			return err
		}
		notAfter := cred.NotBefore.Add(lifetime)
		cred.NotAfter = &notAfter
	}

	if maxUses := cCtx.Int(flagMax.Name); maxUses > 0 {
		cred.UsedMax = &maxUses
	}

	rec := domain.TokenRecord{
		Credential:  cred,
		Username:    cCtx.String(flagUsername.Name),
		Permissions: splitPermissions(cCtx.String(flagPermissions.Name)),
	}
	if err := st.Add(cCtx.Context, rec); err != nil {
		return fmt.Errorf("failed to store token: %w", err)
	}

	fmt.Println(value)
	return nil
}

func splitPermissions(s string) []string {
	var perms []string
	for _, p := range strings.Split(s, ",") {
		if p = strings.TrimSpace(p); p != "" {
			perms = append(perms, p)
		}
	}
	return perms
}

// parseLifetime parses a duration string, additionally accepting day ("d")
// and week ("w") suffixes that time.ParseDuration does not know.
func parseLifetime(s string) (time.Duration, error) {
	if n, ok := strings.CutSuffix(s, "d"); ok {
		days, err := strconv.Atoi(n)
		if err != nil {
			return 0, fmt.Errorf("invalid lifetime %q", s)
		}
		return time.Duration(days) * 24 * time.Hour, nil
	}
	if n, ok := strings.CutSuffix(s, "w"); ok {
		weeks, err := strconv.Atoi(n)
		if err != nil {
			return 0, fmt.Errorf("invalid lifetime %q", s)
		}
		return time.Duration(weeks) * 7 * 24 * time.Hour, nil
	}

	lifetime, err := time.ParseDuration(s)
	if err != nil {
		return 0, fmt.Errorf("invalid lifetime %q", s)
	}
	return lifetime, nil
}
