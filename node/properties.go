package node

// PropertyType enumerates the value types a node parameter can take.
type PropertyType string

const (
	PropertyTypeString  PropertyType = "string"
	PropertyTypeNumber  PropertyType = "number"
	PropertyTypeBoolean PropertyType = "boolean"
	PropertyTypeOptions PropertyType = "options"
)

// PropertyOption is one selectable value of an options-typed property.
type PropertyOption struct {
	Name  string `json:"name"`
	Value string `json:"value"`
}

// Property describes one node parameter the host renders and resolves. The
// shape follows the workflow-host convention: properties are data, not code,
// so hosts can build configuration UIs without executing the node.
type Property struct {
	Key         string           `json:"key"`
	DisplayName string           `json:"display_name"`
	Description string           `json:"description,omitempty"`
	Type        PropertyType     `json:"type"`
	Default     any              `json:"default,omitempty"`
	Required    bool             `json:"required,omitempty"`
	Options     []PropertyOption `json:"options,omitempty"`

	// ExpressionChoice marks parameters the host may supply as an
	// expression evaluated against the current item instead of a literal.
	ExpressionChoice bool `json:"expression_choice,omitempty"`
}

// Properties returns the node's parameter descriptors.
func Properties() []Property {
	return []Property{
		{
			Key:         ParamTableName,
			DisplayName: "Table Name",
			Description: "The table to store the chat history in. Created automatically if it does not exist.",
			Type:        PropertyTypeString,
			Default:     DefaultTableName,
		},
		{
			Key:         ParamSessionIDSource,
			DisplayName: "Session ID",
			Description: "Where the conversation's session id comes from",
			Type:        PropertyTypeOptions,
			Default:     string(SessionSourceExpression),
			Options: []PropertyOption{
				{Name: "Taken from the current item", Value: string(SessionSourceExpression)},
				{Name: "Defined below", Value: string(SessionSourceFixed)},
				{Name: "Generated per execution", Value: string(SessionSourceGenerated)},
			},
		},
		{
			Key:              ParamSessionKey,
			DisplayName:      "Session Key",
			Description:      "The fixed session id, or the path to it in the current item's JSON",
			Type:             PropertyTypeString,
			Default:          DefaultSessionPath,
			ExpressionChoice: true,
		},
		{
			Key:         ParamContextWindowLength,
			DisplayName: "Context Window Length",
			Description: "How many past turns the windowed memory loads into the prompt",
			Type:        PropertyTypeNumber,
			Default:     DefaultContextWindowLength,
		},
		{
			Key:         ParamSupportToolCalls,
			DisplayName: "Support Tool Calls",
			Description: "Preserve structured tool-call messages for agent workflows",
			Type:        PropertyTypeBoolean,
			Default:     false,
		},
	}
}
