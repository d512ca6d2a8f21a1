// httptestd serves mock HTTP expectations from fixture files.
package main

import "github.com/ggriffiniii/httptest/internal/cli"

func main() {
	cli.Execute()
}
