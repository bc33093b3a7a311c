package indirect

import (
	"strings"
	"testing"
)

func TestNamedConstDecode(t *testing.T) {
	d := NamedConst{Table: StorportFunctionCode}
	tests := []struct {
		in, want string
	}{
		{"5C", "0x5C=ExtFunctionGetCurrentProcessorIndex"},
		{"0", "0x0=ExtFunctionAllocatePool"},
		{"FFFF", "0xFFFF"},
		{"FFFFFFFF", "0xFFFFFFFF"},
		{"80000000", "0x80000000"},
		{"dword ptr [rsp+48", "dword ptr [rsp+48"},
	}
	for _, tt := range tests {
		if got := d.Decode(tt.in); got != tt.want {
			t.Errorf("Decode(%q) = %q, want %q", tt.in, got, tt.want)
		}
	}

	scsi := NamedConst{Table: ScsiNotificationType}
	if got := scsi.Decode("1000"); got != "0x1000=EnablePassiveInitialization" {
		t.Errorf("Decode(1000) = %q", got)
	}
	if got := scsi.Decode("1010"); got != "0x1010=StorMQControllerStartInitialization" {
		t.Errorf("Decode(1010) = %q", got)
	}
	if got := scsi.Decode("4"); got != "0x4=_obsolete1" {
		t.Errorf("Decode(4) = %q", got)
	}
}

func TestCatalogMatch(t *testing.T) {
	c := Default()
	if c.Len() != 9 {
		t.Fatalf("Len = %d, want 9", c.Len())
	}
	tests := []struct {
		line string
		want string
	}{
		{"call    nt!KeInitializeDpc (fffff800`12345678)", "KeInitializeDpc"},
		{"call    nt!KeInitializeThreadedDpc (fffff800`12345678)", "KeInitializeThreadedDpc"},
		{"call    nt!MmMapMdl (fffff800`12345678)", "MmMapMdl"},
		{"call    nt!IoQueueWorkItem (fffff800`12345678)", "IoQueueWorkItem"},
		{"call    nt!IoQueueWorkItemEx (fffff800`12345678)", "IoQueueWorkItemEx"},
		{"call    storport!StorPortNotification (fffff800`12345678)", "StorPortNotification"},
		{"call    storport!StorPortExtendedFunction (fffff800`12345678)", "StorPortExtendedFunction"},
		{"call    nt!IoRegisterPlugPlayNotification (fffff800`12345678)", "IoRegisterPlugPlayNotification"},
	}
	for _, tt := range tests {
		r, ok := c.Match(tt.line)
		if !ok {
			t.Errorf("Match(%q) found nothing", tt.line)
			continue
		}
		if r.Name != tt.want {
			t.Errorf("Match(%q) = %s, want %s", tt.line, r.Name, tt.want)
		}
	}
	if _, ok := c.Match("call    nt!IoCreateDevice (fffff800`12345678)"); ok {
		t.Error("Match(IoCreateDevice) matched a rule")
	}
	if _, ok := c.Match("call    qword ptr [drv!_imp_KeInitializeDpc (fffff800`12345678)]"); ok {
		t.Error("Match(import cell) matched a rule")
	}
}

func TestResolveRoutineSymbol(t *testing.T) {
	c := Default()
	r, _ := c.Match("call    nt!KeInitializeDpc (fffff800`12345678)")
	block := "488d15f0ffffff  lea     rdx,[drv!DpcRoutine (fffff800`00001000)]\n" +
		"488bcb          mov     rcx,rbx\n" +
		"e800000000      call    nt!KeInitializeDpc (fffff800`12345678)\n"
	got, unreliable := r.Resolve(block)
	if got != "drv!DpcRoutine" {
		t.Errorf("Resolve = %q, want %q", got, "drv!DpcRoutine")
	}
	if unreliable {
		t.Error("Resolve reported unreliable for a symbol rule")
	}
}

func TestResolveLookbackBound(t *testing.T) {
	c := Default()
	r, _ := c.Match("call    nt!KeInitializeDpc (fffff800`12345678)")
	block := "488d15f0ffffff  lea     rdx,[drv!DpcRoutine (fffff800`00001000)]\n" +
		"90              nop\n" +
		"90              nop\n" +
		"90              nop\n" +
		"e800000000      call    nt!KeInitializeDpc (fffff800`12345678)\n"
	if got, _ := r.Resolve(block); got != "" {
		t.Errorf("Resolve past lookback = %q, want empty", got)
	}
}

func TestResolveNotification(t *testing.T) {
	c := Default()
	r, _ := c.Match("call    storport!StorPortNotification (fffff800`00002000)")
	block := "b900100000      mov     ecx,1000h\n" +
		"e800000000      call    storport!StorPortNotification (fffff800`00002000)\n"
	got, unreliable := r.Resolve(block)
	if got != "0x1000=EnablePassiveInitialization" {
		t.Errorf("Resolve = %q", got)
	}
	if unreliable {
		t.Error("StorPortNotification flagged unreliable")
	}
}

func TestResolveExtendedFunctionLoop(t *testing.T) {
	c := Default()
	r, _ := c.Match("call    storport!StorPortExtendedFunction (fffff800`00002000)")
	call := "e800000000      call    storport!StorPortExtendedFunction (fffff800`00002000)\n"
	block := "b902000000      mov     ecx,2h\n" + call +
		"b903000000      mov     ecx,3h\n" + call +
		"b902000000      mov     ecx,2h\n" + call +
		"418d485c        lea     ecx,[r8+5Ch]\n" + call
	got, unreliable := r.Resolve(block)
	want := "0x2=ExtFunctionAllocateMdl,0x3=ExtFunctionFreeMdl,0x5C=ExtFunctionGetCurrentProcessorIndex"
	if got != want {
		t.Errorf("Resolve = %q, want %q", got, want)
	}
	if !unreliable {
		t.Error("StorPortExtendedFunction not flagged unreliable")
	}
}

func TestResolveNothingFound(t *testing.T) {
	c := Default()
	r, _ := c.Match("call    storport!StorPortExtendedFunction (fffff800`00002000)")
	got, unreliable := r.Resolve("e800000000      call    storport!StorPortExtendedFunction (fffff800`00002000)\n")
	if got != "" || unreliable {
		t.Errorf("Resolve = (%q, %v), want empty and reliable", got, unreliable)
	}
}

func TestNewRejectsBadPattern(t *testing.T) {
	_, err := New([]Rule{{Name: "bad", Target: `call    (`, Source: `x`}})
	if err == nil {
		t.Error("New accepted an invalid target pattern")
	}
}

func TestResolveDistantCallSites(t *testing.T) {
	c := Default()
	r, _ := c.Match("call    storport!StorPortExtendedFunction (fffff800`00002000)")
	call := "e800000000      call    storport!StorPortExtendedFunction (fffff800`00002000)\n"
	nops := strings.Repeat("90              nop\n", 12)

	block := "b902000000      mov     ecx,2h\n" + call + nops +
		"b903000000      mov     ecx,3h\n" + call
	got, _ := r.Resolve(block)
	if want := "0x2=ExtFunctionAllocateMdl,0x3=ExtFunctionFreeMdl"; got != want {
		t.Errorf("Resolve = %q, want %q", got, want)
	}

	// A value further above its call than the lookback allows is not bound
	// to it.
	block = "b902000000      mov     ecx,2h\n" + nops + call +
		"b903000000      mov     ecx,3h\n" + call
	if got, _ := r.Resolve(block); got != "0x3=ExtFunctionFreeMdl" {
		t.Errorf("Resolve past lookback = %q", got)
	}
}

func TestResolveOpcodeMismatch(t *testing.T) {
	c := Default()
	r, _ := c.Match("call    storport!StorPortNotification (fffff800`00002000)")
	call := "e800000000      call    storport!StorPortNotification (fffff800`00002000)\n"

	// Bytes encode ecx=0x1001 while the text claims 1000h.
	got, unreliable := r.Resolve("b901100000      mov     ecx,1000h\n" + call)
	if got != "0x1000=EnablePassiveInitialization" {
		t.Errorf("Resolve = %q", got)
	}
	if !unreliable {
		t.Error("disagreeing opcode bytes not flagged unreliable")
	}

	// Without an opcode column there is nothing to cross-check.
	if _, unreliable := r.Resolve("mov     ecx,1000h\n" + call); unreliable {
		t.Error("missing opcode column flagged unreliable")
	}
}

func TestImmediate(t *testing.T) {
	tests := []struct {
		opcode string
		want   uint32
		ok     bool
	}{
		{"b900100000", 0x1000, true},
		{"b902000000", 0x2, true},
		{"418d485c", 0x5c, true},
		{"c3", 0, false},
		{"zz", 0, false},
	}
	for _, tt := range tests {
		got, ok := immediate(tt.opcode)
		if got != tt.want || ok != tt.ok {
			t.Errorf("immediate(%q) = (%#x, %v), want (%#x, %v)", tt.opcode, got, ok, tt.want, tt.ok)
		}
	}
	if !agrees("418d485c", "5C") || agrees("418d485c", "5D") {
		t.Error("agrees disagrees with lea displacement")
	}
}
