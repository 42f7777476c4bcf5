package main

import (
	"fmt"
	"os"
	"strings"
)

// generateSupply writes SupplyN, or SupplyArgN when withArg is set.
func generateSupply(n int, withArg bool) string {
	var sb strings.Builder

	name := fmt.Sprintf("Supply%d", n)
	typeParams := []string{"R any"}
	if withArg {
		name = fmt.Sprintf("SupplyArg%d", n)
		typeParams = append([]string{"A any"}, typeParams...)
	}
	for i := 1; i <= n; i++ {
		typeParams = append(typeParams, fmt.Sprintf("D%d any", i))
	}

	cellParams := []string{}
	for i := 1; i <= n; i++ {
		cellParams = append(cellParams, fmt.Sprintf("c%d *Cell[D%d]", i, i))
	}

	fnParams := []string{}
	for i := 1; i <= n; i++ {
		fnParams = append(fnParams, fmt.Sprintf("D%d", i))
	}
	wrappedParams := []string{"context.Context"}
	wrappedArgs := []string{"ctx context.Context"}
	if withArg {
		fnParams = append(fnParams, "A")
		wrappedParams = append(wrappedParams, "A")
		wrappedArgs = append(wrappedArgs, "arg A")
	}

	callArgs := []string{}
	for i := 1; i <= n; i++ {
		callArgs = append(callArgs, fmt.Sprintf("v%d", i))
	}
	if withArg {
		callArgs = append(callArgs, "arg")
	}

	sb.WriteString(fmt.Sprintf("func %s[%s](\n", name, strings.Join(typeParams, ", ")))
	for _, p := range cellParams {
		sb.WriteString(fmt.Sprintf("\t%s,\n", p))
	}
	sb.WriteString(fmt.Sprintf("\tfn func(%s) (R, error),\n", strings.Join(fnParams, ", ")))
	sb.WriteString(fmt.Sprintf(") func(%s) (R, error) {\n", strings.Join(wrappedParams, ", ")))
	sb.WriteString(fmt.Sprintf("\treturn func(%s) (R, error) {\n", strings.Join(wrappedArgs, ", ")))
	sb.WriteString("\t\tvar zero R\n")
	for i := 1; i <= n; i++ {
		sb.WriteString(fmt.Sprintf("\t\tv%d, err := c%d.Get(ctx)\n", i, i))
		sb.WriteString("\t\tif err != nil {\n")
		sb.WriteString("\t\t\treturn zero, err\n")
		sb.WriteString("\t\t}\n")
	}
	sb.WriteString(fmt.Sprintf("\t\treturn fn(%s)\n", strings.Join(callArgs, ", ")))
	sb.WriteString("\t}\n")
	sb.WriteString("}\n\n")

	return sb.String()
}

func main() {
	var output strings.Builder

	for i := 1; i <= 5; i++ {
		output.WriteString(generateSupply(i, false))
	}
	for i := 1; i <= 5; i++ {
		output.WriteString(generateSupply(i, true))
	}

	fmt.Print(output.String())

	if len(os.Args) > 1 && os.Args[1] == "-w" {
		file, err := os.OpenFile("supply_generated.go", os.O_CREATE|os.O_WRONLY|os.O_TRUNC, 0644)
		if err != nil {
			panic(err)
		}
		defer file.Close()

		file.WriteString("// Code generated by codegen/main.go. DO NOT EDIT.\n\n")
		file.WriteString("package supplier\n\n")
		file.WriteString("//go:generate go run codegen/main.go -w\n\n")
		file.WriteString("import \"context\"\n\n")
		file.WriteString(strings.TrimRight(output.String(), "\n") + "\n")
		fmt.Println("Generated supply_generated.go")
	}
}
