package constant

// AsciiArtLogo is the banner printed by the version command.
const AsciiArtLogo = `
       _
  __ _| |_ ___ _   _ _ __ ___   ___
 / _' | __/ __| | | | '_ ' _ \ / _ \
| (_| | |_\__ \ |_| | | | | | |  __/
 \__,_|\__|___/\__,_|_| |_| |_|\___|
`
