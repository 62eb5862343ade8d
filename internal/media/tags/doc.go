// Package tags writes the resolved item name into the ID3 title of mp3 outputs.
package tags
