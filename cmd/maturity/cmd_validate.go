package main

import (
	"github.com/spf13/cobra"

	"maturity/internal/domain"
	"maturity/internal/identity"
)

var validateFlags struct {
	url      string
	name     string
	platform string
	page     string
}

var validateCmd = &cobra.Command{
	Use:   "validate",
	Short: "Decide whether a URL is an entity's official website or profile",
	RunE:  runValidate,
}

func init() {
	f := validateCmd.Flags()
	f.StringVar(&validateFlags.url, "url", "", "URL to validate (required)")
	f.StringVar(&validateFlags.name, "name", "", "Entity name (required)")
	f.StringVar(&validateFlags.platform, "platform", "", "Platform; detected from the URL when empty")
	f.StringVar(&validateFlags.page, "page", "", "JSON/YAML file with scraped page features")

	_ = validateCmd.MarkFlagRequired("url")
	_ = validateCmd.MarkFlagRequired("name")
}

func runValidate(cmd *cobra.Command, _ []string) error {
	var page *domain.PageFeatures
	if validateFlags.page != "" {
		page = &domain.PageFeatures{}
		if err := readDoc(validateFlags.page, page); err != nil {
			return err
		}
	}
	res := identity.Validate(validateFlags.url, validateFlags.name, domain.Platform(validateFlags.platform), page)
	return printJSON(cmd.OutOrStdout(), res)
}
