package presentation

func Serve() {}
