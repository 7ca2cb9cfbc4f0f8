package main

const banner = `
  ____     _ _ ____            _ _
 / ___|___| | / ___|  ___ _ __(_) |__   ___
| |   / _ \ | \___ \ / __| '__| | '_ \ / _ \
| |__|  __/ | |___) | (__| |  | | |_) |  __/
 \____\___|_|_|____/ \___|_|  |_|_.__/ \___|
`
