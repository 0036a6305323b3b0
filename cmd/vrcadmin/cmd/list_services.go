package cmd

import (
	"fmt"
	"go/ast"
	"go/token"
	"go/types"
	"sort"
	"strconv"
	"text/tabwriter"

	"github.com/spf13/cobra"
	"golang.org/x/tools/go/packages"
)

var listServicesCmd = &cobra.Command{
	Use:   "list-services",
	Short: "Lists all services discoverable via the service registry",
	Long: `Scans the codebase for registry.Key declarations to find the shared
services modules can resolve at runtime. Run it from the repository root.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		services, err := findRegistryKeys("./")
		if err != nil {
			return fmt.Errorf("failed to find registry keys: %w", err)
		}
		if len(services) == 0 {
			fmt.Fprintln(cmd.OutOrStdout(), "No services found in the registry.")
			return nil
		}
		w := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 0, 3, ' ', 0)
		fmt.Fprintln(w, "NAME\tKEY\tTYPE")
		for _, s := range services {
			fmt.Fprintf(w, "%s\t%s\t%s\n", s.Name, s.Key, s.Type)
		}
		return w.Flush()
	},
}

func init() {
	rootCmd.AddCommand(listServicesCmd)
}

// ServiceInfo is one declared registry key.
type ServiceInfo struct {
	Name string
	Key  string
	Type string
}

// findRegistryKeys loads every package under root and collects declarations
// of the form `Name Key[T] = "key"` or `Name = registry.Key[T]("key")`.
func findRegistryKeys(root string) ([]ServiceInfo, error) {
	cfg := &packages.Config{
		Mode: packages.NeedName | packages.NeedFiles | packages.NeedSyntax,
		Dir:  root,
	}
	pkgs, err := packages.Load(cfg, "./...")
	if err != nil {
		return nil, fmt.Errorf("failed to load packages: %w", err)
	}

	var services []ServiceInfo
	for _, pkg := range pkgs {
		for _, file := range pkg.Syntax {
			ast.Inspect(file, func(n ast.Node) bool {
				decl, ok := n.(*ast.GenDecl)
				if !ok || (decl.Tok != token.CONST && decl.Tok != token.VAR) {
					return true
				}
				for _, spec := range decl.Specs {
					vs, ok := spec.(*ast.ValueSpec)
					if !ok {
						continue
					}
					services = append(services, keysIn(vs)...)
				}
				return false
			})
		}
	}
	sort.Slice(services, func(i, j int) bool { return services[i].Key < services[j].Key })
	return services, nil
}

func keysIn(vs *ast.ValueSpec) []ServiceInfo {
	var out []ServiceInfo
	for i, name := range vs.Names {
		if i >= len(vs.Values) {
			break
		}
		typeExpr, value := vs.Type, vs.Values[i]
		if call, ok := value.(*ast.CallExpr); ok && len(call.Args) == 1 {
			typeExpr, value = call.Fun, call.Args[0]
		}
		elem, ok := keyType(typeExpr)
		if !ok {
			continue
		}
		lit, ok := value.(*ast.BasicLit)
		if !ok || lit.Kind != token.STRING {
			continue
		}
		key, err := strconv.Unquote(lit.Value)
		if err != nil {
			continue
		}
		out = append(out, ServiceInfo{Name: name.Name, Key: key, Type: types.ExprString(elem)})
	}
	return out
}

// keyType matches Key[T] and registry.Key[T], returning T.
func keyType(expr ast.Expr) (ast.Expr, bool) {
	idx, ok := expr.(*ast.IndexExpr)
	if !ok {
		return nil, false
	}
	switch x := idx.X.(type) {
	case *ast.Ident:
		return idx.Index, x.Name == "Key"
	case *ast.SelectorExpr:
		return idx.Index, x.Sel.Name == "Key"
	}
	return nil, false
}
