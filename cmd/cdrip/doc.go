// Command cdrip converts audio CDs into tagged MP3 albums by pipelining
// cdparanoia, ffmpeg, and mid3v2. The bare command runs the convert and tag
// stages over an album directory; subcommands expose the individual stages
// plus run history, dependency checks, and configuration utilities.
package main
