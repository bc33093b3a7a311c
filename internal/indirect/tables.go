package indirect

// sequential numbers names from base upward.
func sequential(m map[int]string, base int, names ...string) map[int]string {
	for i, n := range names {
		m[base+i] = n
	}
	return m
}

// ScsiNotificationType maps SCSI_NOTIFICATION_TYPE values (the first
// argument of StorPortNotification) to their names.
var ScsiNotificationType = sequential(sequential(map[int]string{}, 0,
	"RequestComplete",
	"NextRequest",
	"NextLuRequest",
	"ResetDetected",
	"_obsolete1",
	"_obsolete2",
	"RequestTimerCall",
	"BusChangeDetected",
	"WMIEvent",
	"WMIReregister",
	"LinkUp",
	"LinkDown",
	"QueryTickCount",
	"BufferOverrunDetected",
	"TraceNotification",
	"GetExtendedFunctionTable",
), 0x1000,
	"EnablePassiveInitialization",
	"InitializeDpc",
	"IssueDpc",
	"AcquireSpinLock",
	"ReleaseSpinLock",
	"StateChangeDetectedCall",
	"IoTargetRequestServiceTime",
	"AsyncNotificationDetected",
	"RequestDirectComplete",
	"InitializeDpcWithContext",
	"InitializeThreadedDpc",
	"SetTargetProcessorDpc",
	"MarkDeviceFailed",
	"MarkDeviceFailedEx",
	"TerminateSystemThread",
	"NvmeofNotification",
	"StorMQControllerStartInitialization",
)

// StorportFunctionCode maps STORPORT_FUNCTION_CODE values (the second
// argument of StorPortExtendedFunction) to their names.
var StorportFunctionCode = sequential(map[int]string{}, 0,
	"ExtFunctionAllocatePool",
	"ExtFunctionFreePool",
	"ExtFunctionAllocateMdl",
	"ExtFunctionFreeMdl",
	"ExtFunctionBuildMdlForNonPagedPool",
	"ExtFunctionGetSystemAddress",
	"ExtFunctionGetOriginalMdl",
	"ExtFunctionCompleteServiceIrp",
	"ExtFunctionGetDeviceObjects",
	"ExtFunctionBuildScatterGatherList",
	"ExtFunctionPutScatterGatherList",
	"ExtFunctionAcquireMSISpinLock",
	"ExtFunctionReleaseMSISpinLock",
	"ExtFunctionGetMessageInterruptInformation",
	"ExtFunctionInitializePerformanceOptimizations",
	"ExtFunctionGetStartIoPerformanceParameters",
	"ExtFunctionLogSystemEvent",
	"ExtFunctionGetCurrentProcessorNumber",
	"ExtFunctionGetActiveGroupCount",
	"ExtFunctionGetGroupAffinity",
	"ExtFunctionGetActiveNodeCount",
	"ExtFunctionGetNodeAffinity",
	"ExtFunctionGetHighestNodeNumber",
	"ExtFunctionGetLogicalProcessorRelationship",
	"ExtFunctionAllocateContiguousMemorySpecifyCacheNode",
	"ExtFunctionFreeContiguousMemorySpecifyCache",
	"ExtFunctionSetPowerSettingNotificationGuids",
	"ExtFunctionInvokeAcpiMethod",
	"ExtFunctionGetRequestInfo",
	"ExtFunctionInitializeWorker",
	"ExtFunctionQueueWorkItem",
	"ExtFunctionFreeWorker",
	"ExtFunctionInitializeTimer",
	"ExtFunctionRequestTimer",
	"ExtFunctionFreeTimer",
	"ExtFunctionInitializeSListHead",
	"ExtFunctionInterlockedFlushSList",
	"ExtFunctionInterlockedPopEntrySList",
	"ExtFunctionInterlockedPushEntrySList",
	"ExtFunctionQueryDepthSList",
	"ExtFunctionGetActivityId",
	"ExtFunctionGetSystemPortNumber",
	"ExtFunctionGetDataInBufferMdl",
	"ExtFunctionGetDataInBufferSystemAddress",
	"ExtFunctionGetDataInBufferScatterGatherList",
	"ExtFunctionMarkDumpMemory",
	"ExtFunctionSetUnitAttributes",
	"ExtFunctionQueryPerformanceCounter",
	"ExtFunctionInitializePoFxPower",
	"ExtFunctionPoFxActivateComponent",
	"ExtFunctionPoFxIdleComponent",
	"ExtFunctionPoFxSetComponentLatency",
	"ExtFunctionPoFxSetComponentResidency",
	"ExtFunctionPoFxPowerControl",
	"ExtFunctionFlushDataBufferMdl",
	"ExtFunctionDeviceOperationAllowed",
	"ExtFunctionGetProcessorIndexFromNumber",
	"ExtFunctionPoFxSetIdleTimeout",
	"ExtFunctionMiniportEtwEvent2",
	"ExtFunctionMiniportEtwEvent4",
	"ExtFunctionMiniportEtwEvent8",
	"ExtFunctionCurrentOsInstallationUpgrade",
	"ExtFunctionRegistryReadAdapterKey",
	"ExtFunctionRegistryWriteAdapterKey",
	"ExtFunctionSetAdapterBusType",
	"ExtFunctionPoFxRegisterPerfStates",
	"ExtFunctionPoFxSetPerfState",
	"ExtFunctionGetD3ColdSupport",
	"ExtFunctionInitializeRpmb",
	"ExtFunctionAllocateHmb",
	"ExtFunctionFreeHmb",
	"ExtFunctionPropagateIrpExtension",
	"ExtFunctionInterlockedInsertHeadList",
	"ExtFunctionInterlockedInsertTailList",
	"ExtFunctionInterlockedRemoveHeadList",
	"ExtFunctionInitializeSpinlock",
	"ExtFunctionGetPfns",
	"ExtFunctionInitializeCryptoEngine",
	"ExtFunctionGetRequestCryptoInfo",
	"ExtFunctionMiniportTelemetry",
	"ExtFunctionUpdateAdapterMaxIO",
	"ExtFunctionDelayExecution",
	"ExtFunctionAllocateDmaMemory",
	"ExtFunctionFreeDmaMemory",
	"ExtFunctionUpdateAdapterMaxIOInfo",
	"ExtFunctionMiniportChannelEtwEvent2",
	"ExtFunctionMiniportChannelEtwEvent4",
	"ExtFunctionMiniportChannelEtwEvent8",
	"ExtFunctionInitializeHighResolutionTimer",
	"ExtFunctionRequestHighResolutionTimer",
	"ExtFunctionCancelHighResolutionTimer",
	"ExtFunctionFreeHighResolutionTimer",
	"ExtFunctionGetCurrentProcessorIndex",
	"ExtFunctionAcquireSpinLock",
	"ExtFunctionGetProcessorCount",
	"ExtFunctionCancelDpc",
	"ExtFunctionMiniportTelemetryEx",
	"ExtFunctionQueryConfiguration",
	"ExtFunctionLogHardwareError",
	"ExtFunctionInitializeEvent",
	"ExtFunctionWaitForEvent",
	"ExtFunctionSetEvent",
	"ExtFunctionDeviceReset",
	"ExtFunctionSetFeatureList",
	"ExtFunctionCaptureLiveDump",
	"ExtFunctionMiniportLogByteStream",
	"ExtFunctionQueryDpcWatchdogInformation",
	"ExtFunctionQueryTimerMinInterval",
	"ExtFunctionMaskPciMsixEntry",
	"ExtFunctionGetCurrentIrql",
	"ExtFunctionCreateSystemThread",
	"ExtFunctionSetPriorityThread",
	"ExtFunctionSetSystemGroupAffinityThread",
	"ExtFunctionRevertToUserGroupAffinityThread",
	"ExtFunctionDeviceResetEx",
	"ExtFunctionMiniportReportInternalData",
	"ExtFunctionGetMessageInterruptIDFromProcessorIndex",
	"ExtFunctionGetNodeAffinity2",
	"ExtFunctionEnableRegistryKeyNotification",
	"ExtFunctionPoFxRegisterPerfStatesEx",
	"ExtFunctionReadRegistryKey",
	"ExtFunctionGetDeviceBase2",
	"ExtFunctionIsDriverHotSwapEnabled",
	"ExtFunctionRegisterDriverProxy",
	"ExtFunctionRegisterDriverProxyEndpoints",
	"ExtFunctionGetDriverProxyEndpointWrapper",
	"ExtFunctionNvmeIceIoStart",
	"ExtFunctionNvmeIceIoComplete",
	"ExtFunctionNvmeMiniportEvent",
	"ExtFunctionNvmeMiniportTelemetry",
	"ExtFunctionGetDriverProxyEndpointWrapperFromEndpoint",
	"ExtFunctionSwapDriverProxyEndpoints",
	"ExtFunctionStorMQAddController",
	"ExtFunctionStorMQRemoveController",
	"ExtFunctionNvmeIceIoStartEx",
	"ExtFunctionQueryNvmeIceSupport",
	"ExtFunctionQueueWorkItemToNode",
)
