package prompts

import _ "embed"

// Embedded prompt files

//go:embed refine_system.txt
var refineSystem string

//go:embed compose_system.txt
var composeSystem string

//go:embed rewrite_system.txt
var rewriteSystem string

func RefineSystem() string  { return refineSystem }
func ComposeSystem() string { return composeSystem }
func RewriteSystem() string { return rewriteSystem }
