// Command inkwell serves the blog and manages its content.
package main

import (
	"os"

	"inkwell/service"
)

func main() {
	os.Exit(service.Execute())
}
