//go:build cgo

package summary

import (
	"context"
	"fmt"

	sitter "github.com/smacker/go-tree-sitter"
	python "github.com/smacker/go-tree-sitter/python"
)

const (
	pythonFunctionNodeType  = "function_definition"
	pythonClassNodeType     = "class_definition"
	pythonDecoratedNodeType = "decorated_definition"
	pythonDecoratorNodeType = "decorator"
	pythonExpressionNode    = "expression_statement"
	pythonStringNodeType    = "string"
	pythonCommentNodeType   = "comment"
	pythonColonNodeType     = ":"
	pythonBlockNodeType     = "block"
	syntaxErrorNodeType     = "ERROR"
	pythonPrintStatement    = "print_statement"
	pythonExecStatement     = "exec_statement"
	pythonBodyField         = "body"
	pythonDefinitionField   = "definition"
)

func extractDeclarations(content []byte) ([]declaration, error) {
	parser := sitter.NewParser()
	parser.SetLanguage(python.GetLanguage())
	tree, parseErr := parser.ParseCtx(context.Background(), nil, content)
	if parseErr != nil {
		return nil, fmt.Errorf("%w: %v", ErrSyntax, parseErr)
	}
	rootNode := tree.RootNode()
	if rootNode.HasError() {
		return nil, fmt.Errorf(errorSyntaxFormat, ErrSyntax, firstErrorLine(rootNode))
	}
	if legacyNode := findLegacyStatement(rootNode); legacyNode != nil {
		return nil, fmt.Errorf(errorSyntaxFormat, ErrSyntax, int(legacyNode.StartPoint().Row)+1)
	}
	return collectDeclarations(rootNode, content), nil
}

// collectDeclarations gathers the class and function declarations directly inside container.
func collectDeclarations(container *sitter.Node, content []byte) []declaration {
	var declarations []declaration
	for childIndex := 0; childIndex < int(container.NamedChildCount()); childIndex++ {
		child := container.NamedChild(childIndex)
		switch child.Type() {
		case pythonFunctionNodeType, pythonClassNodeType:
			declarations = append(declarations, buildDeclaration(child, nil, content))
		case pythonDecoratedNodeType:
			definition := child.ChildByFieldName(pythonDefinitionField)
			if definition == nil {
				continue
			}
			var decorators []string
			for decoratorIndex := 0; decoratorIndex < int(child.NamedChildCount()); decoratorIndex++ {
				decorator := child.NamedChild(decoratorIndex)
				if decorator.Type() == pythonDecoratorNodeType {
					decorators = append(decorators, decorator.Content(content))
				}
			}
			declarations = append(declarations, buildDeclaration(definition, decorators, content))
		}
	}
	return declarations
}

func buildDeclaration(definition *sitter.Node, decorators []string, content []byte) declaration {
	result := declaration{decorators: decorators, header: headerText(definition, content)}
	body := definition.ChildByFieldName(pythonBodyField)
	if body == nil {
		return result
	}
	if docstringNode := findDocstring(body); docstringNode != nil {
		result.docstring = docstringNode.Content(content)
		result.docstringColumn = int(docstringNode.StartPoint().Column)
	}
	result.children = collectDeclarations(body, content)
	return result
}

// headerText returns the declaration source from its first keyword through the colon
// that opens its body.
func headerText(definition *sitter.Node, content []byte) string {
	headerEnd := definition.EndByte()
	for childIndex := 0; childIndex < int(definition.ChildCount()); childIndex++ {
		child := definition.Child(childIndex)
		if child.Type() == pythonColonNodeType {
			headerEnd = child.EndByte()
		}
		if child.Type() == pythonBlockNodeType {
			break
		}
	}
	return string(content[definition.StartByte():headerEnd])
}

func findDocstring(body *sitter.Node) *sitter.Node {
	for childIndex := 0; childIndex < int(body.NamedChildCount()); childIndex++ {
		statement := body.NamedChild(childIndex)
		if statement.Type() == pythonCommentNodeType {
			continue
		}
		if statement.Type() != pythonExpressionNode || statement.NamedChildCount() == 0 {
			return nil
		}
		expression := statement.NamedChild(0)
		if expression.Type() != pythonStringNodeType {
			return nil
		}
		return expression
	}
	return nil
}

func firstErrorLine(node *sitter.Node) int {
	if node.Type() == syntaxErrorNodeType || node.IsMissing() {
		return int(node.StartPoint().Row) + 1
	}
	for childIndex := 0; childIndex < int(node.ChildCount()); childIndex++ {
		child := node.Child(childIndex)
		if child.HasError() || child.IsMissing() {
			return firstErrorLine(child)
		}
	}
	return int(node.StartPoint().Row) + 1
}

// findLegacyStatement returns the first Python 2 print or exec statement under node.
// The grammar accepts both although Python 3 rejects them.
func findLegacyStatement(node *sitter.Node) *sitter.Node {
	switch node.Type() {
	case pythonPrintStatement, pythonExecStatement:
		return node
	}
	for childIndex := 0; childIndex < int(node.NamedChildCount()); childIndex++ {
		if legacyNode := findLegacyStatement(node.NamedChild(childIndex)); legacyNode != nil {
			return legacyNode
		}
	}
	return nil
}
