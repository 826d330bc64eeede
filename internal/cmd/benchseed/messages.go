package benchseed

import (
	i18ncatalog "github.com/louisbranch/benchseed/internal/platform/i18n/catalog"
	"golang.org/x/text/language"
	"golang.org/x/text/message"
)

// Message keys from the "cli" catalog namespace.
const (
	msgInstanceKey   = "cli.instance.key"
	msgInstanceSeed  = "cli.instance.optimum_seed"
	msgInstanceFOpt  = "cli.instance.fopt"
	msgInstanceXOpt  = "cli.instance.xopt"
	msgDescribeHead  = "cli.describe.head"
	msgDescribeMean  = "cli.describe.mean"
	msgDescribeStd   = "cli.describe.std"
	msgDescribeRange = "cli.describe.range"
	msgDescribeKS    = "cli.describe.ks"
	msgPopulateDone  = "cli.populate.done"
)

// newPrinter returns a printer for the closest catalog locale to lang.
func newPrinter(lang string) *message.Printer {
	bundle := i18ncatalog.Default()
	supported := make([]language.Tag, 0, len(bundle.Locales()))
	for _, locale := range bundle.Locales() {
		supported = append(supported, language.Make(locale))
	}
	_, index, _ := language.NewMatcher(supported).Match(language.Make(lang))
	return message.NewPrinter(supported[index])
}
