package cmd

import (
	"encoding/json"
	"fmt"
	"log"
	"sort"

	"github.com/spf13/cobra"

	"github.com/jcdickinson/rsdoclink/internal/db"
	"github.com/jcdickinson/rsdoclink/internal/version"
)

var statusCmd = &cobra.Command{
	Use:   "status",
	Short: "Show stored crate link mappings",
	Run:   runStatus,
}

var statusJSON bool

func init() {
	statusCmd.Flags().BoolVar(&statusJSON, "json", false, "output as JSON")
	rootCmd.AddCommand(statusCmd)
}

func runStatus(cmd *cobra.Command, args []string) {
	database, err := openDB()
	if err != nil {
		log.Fatalf("%v", err)
	}
	defer database.Close()

	infos, err := database.ListCrates()
	if err != nil {
		log.Fatalf("listing crates: %v", err)
	}
	sortCrateInfos(infos)

	if statusJSON {
		out, _ := json.MarshalIndent(infos, "", "  ")
		fmt.Println(string(out))
		return
	}

	if len(infos) == 0 {
		fmt.Println("no crates stored")
		return
	}
	for _, info := range infos {
		fmt.Printf("  %s@%s: %d links (fetched %s)\n",
			info.Name, info.Version, info.Links, info.FetchedAt.Format("2006-01-02 15:04"))
	}
}

// sortCrateInfos orders the listing by crate name, newest version first.
// Stored versions are the resolved ones the loader produced, so they parse.
func sortCrateInfos(infos []db.CrateInfo) {
	sort.Slice(infos, func(i, j int) bool {
		if infos[i].Name != infos[j].Name {
			return infos[i].Name < infos[j].Name
		}
		return version.Compare(
			version.MustParse(infos[i].Version),
			version.MustParse(infos[j].Version),
		) > 0
	})
}
