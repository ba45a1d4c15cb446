package net

import (
	"fmt"
	"log"
	"net"
)

// OutgoingIP returns the local address other machines on the LAN should use
// to reach this one. The UDP dial sends nothing; it only asks the kernel
// which interface routes outward.
func OutgoingIP() net.IP {
	conn, err := net.Dial("udp4", "8.8.8.8:80")
	if err != nil {
		return interfaceIPv4()
	}
	defer conn.Close()

	if addr, ok := conn.LocalAddr().(*net.UDPAddr); ok && addr.IP.To4() != nil {
		return addr.IP.To4()
	}
	return interfaceIPv4()
}

// interfaceIPv4 is used on networks without a default route.
func interfaceIPv4() net.IP {
	ifaces, err := net.Interfaces()
	if err != nil {
		log.Printf("[SHARE] listing interfaces: %v", err)
		return net.IPv4(127, 0, 0, 1)
	}
	for _, iface := range ifaces {
		if iface.Flags&net.FlagUp == 0 || iface.Flags&net.FlagLoopback != 0 {
			continue
		}
		addrs, _ := iface.Addrs()
		for _, a := range addrs {
			if ipnet, ok := a.(*net.IPNet); ok && ipnet.IP.To4() != nil {
				return ipnet.IP.To4()
			}
		}
	}
	log.Println("[SHARE] no suitable local IP found, using loopback")
	return net.IPv4(127, 0, 0, 1)
}

// ShareLink returns the URL viewers open to watch the page.
func ShareLink(port int) string {
	return fmt.Sprintf("http://%s:%d/snapshot.png", OutgoingIP(), port)
}
